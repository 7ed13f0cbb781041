package repository

import (
	"context"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
)

// CardRepository defines persistence for cards.
type CardRepository interface {
	Create(ctx context.Context, c *entity.Card) error
	GetByID(ctx context.Context, id string) (*entity.Card, error)
	// ListByColumn returns the column's cards sorted ascending by order.
	ListByColumn(ctx context.Context, columnID string) ([]entity.Card, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Card, error)
	// ListByColumns returns cards belonging to any of the columns, sorted
	// ascending by order. Used to assemble the full board view.
	ListByColumns(ctx context.Context, columnIDs []string) ([]entity.Card, error)
	// MaxOrder returns the highest order among the column's cards;
	// ok is false when the column has no cards.
	MaxOrder(ctx context.Context, columnID string) (order int, ok bool, err error)
	Update(ctx context.Context, c *entity.Card) error
	BulkSetOrder(ctx context.Context, updates []OrderUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByColumn(ctx context.Context, columnID string) error
	DeleteByColumns(ctx context.Context, columnIDs []string) error
}
