package repository

import (
	"context"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
)

// ProjectRepository defines persistence for projects.
type ProjectRepository interface {
	Create(ctx context.Context, p *entity.Project) error
	GetByID(ctx context.Context, id string) (*entity.Project, error)
	// ListByIDs returns projects matching ids, newest first.
	ListByIDs(ctx context.Context, ids []string) ([]entity.Project, error)
	// ListAll returns every project, newest first. Superadmin listing only.
	ListAll(ctx context.Context) ([]entity.Project, error)
	Update(ctx context.Context, p *entity.Project) error
	Delete(ctx context.Context, id string) error
}

// ProjectMemberRepository defines persistence for project memberships.
type ProjectMemberRepository interface {
	Create(ctx context.Context, m *entity.ProjectMember) error
	Get(ctx context.Context, projectID, userID string) (*entity.ProjectMember, error)
	ListByProject(ctx context.Context, projectID string) ([]entity.ProjectMember, error)
	ListByUser(ctx context.Context, userID string) ([]entity.ProjectMember, error)
	// CountMembershipIn reports in how many of the given projects userID is a member.
	CountMembershipIn(ctx context.Context, projectIDs []string, userID string) (int64, error)
	Delete(ctx context.Context, projectID, userID string) error
	DeleteByProject(ctx context.Context, projectID string) error
}
