package repository

import (
	"context"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
)

// BoardRepository defines persistence for boards.
type BoardRepository interface {
	Create(ctx context.Context, b *entity.Board) error
	GetByID(ctx context.Context, id string) (*entity.Board, error)
	// ListByProject returns the project's boards, newest first.
	ListByProject(ctx context.Context, projectID string) ([]entity.Board, error)
	ListByIDs(ctx context.Context, ids []string) ([]entity.Board, error)
	Update(ctx context.Context, b *entity.Board) error
	Delete(ctx context.Context, id string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
