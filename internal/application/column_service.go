package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

// ReorderItem assigns a new order value to one sibling in a bulk reorder.
type ReorderItem struct {
	ID    string
	Order int
}

// ColumnService manages board columns: creation with appended order,
// updates, bulk reorder, and the cascade removing a column's cards.
type ColumnService struct {
	Columns repository.ColumnRepository
	Boards  repository.BoardRepository
	Members repository.ProjectMemberRepository
	Cards   repository.CardRepository
	Authz   *Authorizer
	Logger  *logrus.Logger
}

// Create appends a column to the board: order = max sibling order + 1, or 0
// on an empty board. Two concurrent creates may compute the same order;
// readers tolerate duplicates, so the race is accepted.
func (s *ColumnService) Create(ctx context.Context, actor Actor, boardID, name, color string) (*entity.Column, error) {
	chain, err := s.Authz.CheckBoardAccess(ctx, actor, boardID)
	if err != nil {
		return nil, err
	}

	if color == "" {
		color = entity.DefaultColumnColor
	}

	order := 0
	if max, ok, err := s.Columns.MaxOrder(ctx, chain.Board.ID); err != nil {
		return nil, err
	} else if ok {
		order = max + 1
	}

	column := &entity.Column{
		BoardID: chain.Board.ID,
		Name:    strings.TrimSpace(name),
		Color:   color,
		Order:   order,
	}
	if err := s.Columns.Create(ctx, column); err != nil {
		return nil, err
	}
	return column, nil
}

// Update renames a column and optionally changes its color.
func (s *ColumnService) Update(ctx context.Context, actor Actor, columnID, name, color string) (*entity.Column, error) {
	chain, err := s.Authz.CheckColumnAccess(ctx, actor, columnID)
	if err != nil {
		return nil, err
	}
	chain.Column.Name = strings.TrimSpace(name)
	if color != "" {
		chain.Column.Color = color
	}
	if err := s.Columns.Update(ctx, chain.Column); err != nil {
		return nil, err
	}
	return chain.Column, nil
}

// Reorder bulk-assigns order values to sibling columns. All ids must exist
// and the actor must be a member of every affected project; the project
// set is deduplicated so shared parents are checked once. The batch applies
// as one bulk write.
func (s *ColumnService) Reorder(ctx context.Context, actor Actor, items []ReorderItem) error {
	if len(items) == 0 {
		return apperror.Validation(apperror.CodeValidation, "No columns to reorder")
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !entity.ValidID(it.ID) {
			return apperror.Validation(apperror.CodeInvalidColumnID, "Invalid column ID")
		}
		ids = append(ids, it.ID)
	}

	columns, err := s.Columns.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(columns) != len(uniqueStrings(ids)) {
		return apperror.NotFound(apperror.CodeColumnNotFound, "One or more columns not found")
	}

	boardIDs := make([]string, 0, len(columns))
	for _, c := range columns {
		boardIDs = append(boardIDs, c.BoardID)
	}
	if err := s.checkParentAccess(ctx, actor, uniqueStrings(boardIDs)); err != nil {
		return err
	}

	updates := make([]repository.OrderUpdate, 0, len(items))
	for _, it := range items {
		updates = append(updates, repository.OrderUpdate{ID: it.ID, Order: it.Order})
	}
	return s.Columns.BulkSetOrder(ctx, updates)
}

// checkParentAccess verifies membership in every project owning the given
// boards. Superadmins pass unconditionally.
func (s *ColumnService) checkParentAccess(ctx context.Context, actor Actor, boardIDs []string) error {
	boards, err := s.Boards.ListByIDs(ctx, boardIDs)
	if err != nil {
		return err
	}
	if len(boards) != len(boardIDs) {
		return apperror.NotFound(apperror.CodeBoardNotFound, "Board not found")
	}
	if actor.IsSuperAdmin() {
		return nil
	}

	projectIDs := make([]string, 0, len(boards))
	for _, b := range boards {
		projectIDs = append(projectIDs, b.ProjectID)
	}
	projectIDs = uniqueStrings(projectIDs)

	n, err := s.Members.CountMembershipIn(ctx, projectIDs, actor.ID)
	if err != nil {
		return err
	}
	if n != int64(len(projectIDs)) {
		return apperror.Forbidden(apperror.CodeAccessDenied, "Access denied: Not authorized to reorder these columns")
	}
	return nil
}

// Delete removes the column and its cards, cards first.
func (s *ColumnService) Delete(ctx context.Context, actor Actor, columnID string) error {
	chain, err := s.Authz.CheckColumnAccess(ctx, actor, columnID)
	if err != nil {
		return err
	}
	if err := s.Cards.DeleteByColumn(ctx, chain.Column.ID); err != nil {
		return err
	}
	if err := s.Columns.Delete(ctx, chain.Column.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(apperror.CodeColumnNotFound, "Column not found")
		}
		return err
	}
	return nil
}

func uniqueStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
