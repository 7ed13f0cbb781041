package repository

import (
	"context"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
)

// ColumnRepository defines persistence for board columns.
type ColumnRepository interface {
	Create(ctx context.Context, c *entity.Column) error
	GetByID(ctx context.Context, id string) (*entity.Column, error)
	// ListByBoard returns the board's columns sorted ascending by order.
	ListByBoard(ctx context.Context, boardID string) ([]entity.Column, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Column, error)
	// ListByBoards returns columns belonging to any of the boards. Cascade use.
	ListByBoards(ctx context.Context, boardIDs []string) ([]entity.Column, error)
	// MaxOrder returns the highest order among the board's columns;
	// ok is false when the board has no columns.
	MaxOrder(ctx context.Context, boardID string) (order int, ok bool, err error)
	Update(ctx context.Context, c *entity.Column) error
	// BulkSetOrder applies all order assignments in one batch write.
	BulkSetOrder(ctx context.Context, updates []OrderUpdate) error
	Delete(ctx context.Context, id string) error
	DeleteByBoard(ctx context.Context, boardID string) error
	DeleteByBoards(ctx context.Context, boardIDs []string) error
}
