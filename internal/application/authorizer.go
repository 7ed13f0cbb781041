package application

import (
	"context"
	"errors"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

// Chain is the resolved ownership path for a checked resource. Project is
// always populated on success; deeper links are populated down to the
// resource that was checked. Member is nil when the actor is a superadmin.
type Chain struct {
	Project *entity.Project
	Board   *entity.Board
	Column  *entity.Column
	Card    *entity.Card
	Member  *entity.ProjectMember
}

// Authorizer answers "may actor perform an operation on resource". Every
// check re-derives the owning project by walking the hierarchy upward from
// the leaf id; client-supplied project context is never trusted. A missing
// link anywhere in the chain fails with that resource's NotFound before any
// membership decision is made.
type Authorizer struct {
	Projects repository.ProjectRepository
	Members  repository.ProjectMemberRepository
	Boards   repository.BoardRepository
	Columns  repository.ColumnRepository
	Cards    repository.CardRepository
}

func NewAuthorizer(
	projects repository.ProjectRepository,
	members repository.ProjectMemberRepository,
	boards repository.BoardRepository,
	columns repository.ColumnRepository,
	cards repository.CardRepository,
) *Authorizer {
	return &Authorizer{Projects: projects, Members: members, Boards: boards, Columns: columns, Cards: cards}
}

// CheckSuperAdmin requires the actor's global role to be SUPERADMIN.
func (a *Authorizer) CheckSuperAdmin(actor Actor) error {
	if !actor.IsSuperAdmin() {
		return apperror.Forbidden(apperror.CodeSuperAdminRequired, "Access denied: SuperAdmin role required")
	}
	return nil
}

// CheckProjectAccess allows superadmins and project members.
func (a *Authorizer) CheckProjectAccess(ctx context.Context, actor Actor, projectID string) (*Chain, error) {
	if !entity.ValidID(projectID) {
		return nil, apperror.Validation(apperror.CodeInvalidProjectID, "Invalid project ID")
	}
	project, err := a.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, projectErr(err)
	}
	chain := &Chain{Project: project}
	if err := a.requireMembership(ctx, actor, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// CheckProjectAdmin allows superadmins and project members holding ADMIN.
func (a *Authorizer) CheckProjectAdmin(ctx context.Context, actor Actor, projectID string) (*Chain, error) {
	chain, err := a.CheckProjectAccess(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuperAdmin() {
		return chain, nil
	}
	if !chain.Member.IsAdmin() {
		return nil, apperror.Forbidden(apperror.CodeAdminRequired, "Access denied: Admin role required")
	}
	return chain, nil
}

// CheckBoardAccess resolves board → project and applies the membership rule.
func (a *Authorizer) CheckBoardAccess(ctx context.Context, actor Actor, boardID string) (*Chain, error) {
	if !entity.ValidID(boardID) {
		return nil, apperror.Validation(apperror.CodeInvalidBoardID, "Invalid board ID")
	}
	board, err := a.Boards.GetByID(ctx, boardID)
	if err != nil {
		return nil, boardErr(err)
	}
	chain, err := a.resolveProject(ctx, board.ProjectID)
	if err != nil {
		return nil, err
	}
	chain.Board = board
	if err := a.requireMembership(ctx, actor, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// CheckColumnAccess resolves column → board → project.
func (a *Authorizer) CheckColumnAccess(ctx context.Context, actor Actor, columnID string) (*Chain, error) {
	if !entity.ValidID(columnID) {
		return nil, apperror.Validation(apperror.CodeInvalidColumnID, "Invalid column ID")
	}
	column, err := a.Columns.GetByID(ctx, columnID)
	if err != nil {
		return nil, columnErr(err)
	}
	board, err := a.Boards.GetByID(ctx, column.BoardID)
	if err != nil {
		return nil, boardErr(err)
	}
	chain, err := a.resolveProject(ctx, board.ProjectID)
	if err != nil {
		return nil, err
	}
	chain.Board = board
	chain.Column = column
	if err := a.requireMembership(ctx, actor, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

// CheckCardAccess resolves card → column → board → project.
func (a *Authorizer) CheckCardAccess(ctx context.Context, actor Actor, cardID string) (*Chain, error) {
	if !entity.ValidID(cardID) {
		return nil, apperror.Validation(apperror.CodeInvalidCardID, "Invalid card ID")
	}
	card, err := a.Cards.GetByID(ctx, cardID)
	if err != nil {
		return nil, cardErr(err)
	}
	column, err := a.Columns.GetByID(ctx, card.ColumnID)
	if err != nil {
		return nil, columnErr(err)
	}
	board, err := a.Boards.GetByID(ctx, column.BoardID)
	if err != nil {
		return nil, boardErr(err)
	}
	chain, err := a.resolveProject(ctx, board.ProjectID)
	if err != nil {
		return nil, err
	}
	chain.Board = board
	chain.Column = column
	chain.Card = card
	if err := a.requireMembership(ctx, actor, chain); err != nil {
		return nil, err
	}
	return chain, nil
}

func (a *Authorizer) resolveProject(ctx context.Context, projectID string) (*Chain, error) {
	project, err := a.Projects.GetByID(ctx, projectID)
	if err != nil {
		return nil, projectErr(err)
	}
	return &Chain{Project: project}, nil
}

// requireMembership applies the membership rule at the top of the chain.
// Superadmins pass unconditionally; everyone else needs a membership row.
func (a *Authorizer) requireMembership(ctx context.Context, actor Actor, chain *Chain) error {
	if actor.IsSuperAdmin() {
		return nil
	}
	member, err := a.Members.Get(ctx, chain.Project.ID, actor.ID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.Forbidden(apperror.CodeNotProjectMember, "Access denied: Not a project member")
		}
		return err
	}
	chain.Member = member
	return nil
}

func projectErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(apperror.CodeProjectNotFound, "Project not found")
	}
	return err
}

func boardErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(apperror.CodeBoardNotFound, "Board not found")
	}
	return err
}

func columnErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(apperror.CodeColumnNotFound, "Column not found")
	}
	return err
}

func cardErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperror.NotFound(apperror.CodeCardNotFound, "Card not found")
	}
	return err
}
