package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

// CreateCardInput carries the optional fields of a new card. Priority
// defaults to MEDIUM; AssignedTo must all be members of the owning project.
type CreateCardInput struct {
	Title                string
	Description          string
	Priority             entity.CardPriority
	ExpectedDeliveryDate *time.Time
	AssignedTo           []string
}

// UpdateCardInput uses tri-state patches for the nullable fields: absent
// leaves the field alone, Clear resets it (priority back to MEDIUM, the
// rest to empty), Set assigns a new value.
type UpdateCardInput struct {
	Title                string
	Description          Patch[string]
	Priority             Patch[entity.CardPriority]
	ExpectedDeliveryDate Patch[time.Time]
	AssignedTo           Patch[[]string]
}

// CardService manages cards: creation with appended order, tri-state
// updates, moves across columns, and bulk reorder.
type CardService struct {
	Cards   repository.CardRepository
	Columns repository.ColumnRepository
	Boards  repository.BoardRepository
	Members repository.ProjectMemberRepository
	Authz   *Authorizer
	Logger  *logrus.Logger
}

// Create appends a card to the column. Assignees outside the owning
// project are rejected before anything is written.
func (s *CardService) Create(ctx context.Context, actor Actor, columnID string, in CreateCardInput) (*entity.Card, error) {
	chain, err := s.Authz.CheckColumnAccess(ctx, actor, columnID)
	if err != nil {
		return nil, err
	}

	priority := in.Priority
	if priority == "" {
		priority = entity.PriorityMedium
	}
	if !entity.ValidPriority(priority) {
		return nil, apperror.Validation(apperror.CodeValidation, "Priority must be one of: LOW, MEDIUM, HIGH, URGENT")
	}
	if err := s.validateAssignees(ctx, chain.Project.ID, in.AssignedTo); err != nil {
		return nil, err
	}

	order := 0
	if max, ok, err := s.Cards.MaxOrder(ctx, chain.Column.ID); err != nil {
		return nil, err
	} else if ok {
		order = max + 1
	}

	card := &entity.Card{
		ColumnID:             chain.Column.ID,
		Title:                strings.TrimSpace(in.Title),
		Description:          in.Description,
		Priority:             priority,
		ExpectedDeliveryDate: in.ExpectedDeliveryDate,
		AssignedTo:           in.AssignedTo,
		Order:                order,
		CreatedBy:            actor.ID,
		CreatedAt:            time.Now().UTC(),
	}
	if err := s.Cards.Create(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Update applies a tri-state patch to the card.
func (s *CardService) Update(ctx context.Context, actor Actor, cardID string, in UpdateCardInput) (*entity.Card, error) {
	chain, err := s.Authz.CheckCardAccess(ctx, actor, cardID)
	if err != nil {
		return nil, err
	}
	card := chain.Card

	if t := strings.TrimSpace(in.Title); t != "" {
		card.Title = t
	}

	if v, ok := in.Description.IsSet(); ok {
		card.Description = v
	} else if in.Description.IsClear() {
		card.Description = ""
	}

	if v, ok := in.Priority.IsSet(); ok {
		if !entity.ValidPriority(v) {
			return nil, apperror.Validation(apperror.CodeValidation, "Priority must be one of: LOW, MEDIUM, HIGH, URGENT")
		}
		card.Priority = v
	} else if in.Priority.IsClear() {
		card.Priority = entity.PriorityMedium
	}

	if v, ok := in.ExpectedDeliveryDate.IsSet(); ok {
		card.ExpectedDeliveryDate = &v
	} else if in.ExpectedDeliveryDate.IsClear() {
		card.ExpectedDeliveryDate = nil
	}

	if v, ok := in.AssignedTo.IsSet(); ok {
		if err := s.validateAssignees(ctx, chain.Project.ID, v); err != nil {
			return nil, err
		}
		card.AssignedTo = v
	} else if in.AssignedTo.IsClear() {
		card.AssignedTo = nil
	}

	if err := s.Cards.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Move reassigns the card's column and order in one update. The
// destination column must exist; its project is not re-checked because the
// card-level check already established access to the source chain.
func (s *CardService) Move(ctx context.Context, actor Actor, cardID, columnID string, order int) (*entity.Card, error) {
	chain, err := s.Authz.CheckCardAccess(ctx, actor, cardID)
	if err != nil {
		return nil, err
	}
	if !entity.ValidID(columnID) {
		return nil, apperror.Validation(apperror.CodeInvalidColumnID, "Invalid column ID")
	}
	if _, err := s.Columns.GetByID(ctx, columnID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperror.NotFound(apperror.CodeColumnNotFound, "Column not found")
		}
		return nil, err
	}

	card := chain.Card
	card.ColumnID = columnID
	card.Order = order
	if err := s.Cards.Update(ctx, card); err != nil {
		return nil, err
	}
	return card, nil
}

// Reorder bulk-assigns order values to cards. All ids must exist and the
// actor must be a member of every affected project, deduplicated by parent.
func (s *CardService) Reorder(ctx context.Context, actor Actor, items []ReorderItem) error {
	if len(items) == 0 {
		return apperror.Validation(apperror.CodeValidation, "No cards to reorder")
	}
	ids := make([]string, 0, len(items))
	for _, it := range items {
		if !entity.ValidID(it.ID) {
			return apperror.Validation(apperror.CodeInvalidCardID, "Invalid card ID")
		}
		ids = append(ids, it.ID)
	}

	cards, err := s.Cards.ListByIDs(ctx, ids)
	if err != nil {
		return err
	}
	if len(cards) != len(uniqueStrings(ids)) {
		return apperror.NotFound(apperror.CodeCardNotFound, "One or more cards not found")
	}

	columnIDs := make([]string, 0, len(cards))
	for _, c := range cards {
		columnIDs = append(columnIDs, c.ColumnID)
	}
	columns, err := s.Columns.ListByIDs(ctx, uniqueStrings(columnIDs))
	if err != nil {
		return err
	}
	if len(columns) != len(uniqueStrings(columnIDs)) {
		return apperror.NotFound(apperror.CodeColumnNotFound, "Column not found")
	}

	boardIDs := make([]string, 0, len(columns))
	for _, c := range columns {
		boardIDs = append(boardIDs, c.BoardID)
	}
	if err := s.checkBoardProjects(ctx, actor, uniqueStrings(boardIDs)); err != nil {
		return err
	}

	updates := make([]repository.OrderUpdate, 0, len(items))
	for _, it := range items {
		updates = append(updates, repository.OrderUpdate{ID: it.ID, Order: it.Order})
	}
	return s.Cards.BulkSetOrder(ctx, updates)
}

func (s *CardService) checkBoardProjects(ctx context.Context, actor Actor, boardIDs []string) error {
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
		return apperror.Forbidden(apperror.CodeAccessDenied, "Access denied: Not authorized to reorder these cards")
	}
	return nil
}

// Delete removes a single card.
func (s *CardService) Delete(ctx context.Context, actor Actor, cardID string) error {
	chain, err := s.Authz.CheckCardAccess(ctx, actor, cardID)
	if err != nil {
		return err
	}
	return s.Cards.Delete(ctx, chain.Card.ID)
}

// validateAssignees requires every assignee to be a member of the owning
// project.
func (s *CardService) validateAssignees(ctx context.Context, projectID string, userIDs []string) error {
	for _, uid := range userIDs {
		if !entity.ValidID(uid) {
			return apperror.Validation(apperror.CodeValidation, "Invalid user ID in assignedTo")
		}
		if _, err := s.Members.Get(ctx, projectID, uid); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return apperror.Validation(apperror.CodeUserNotProjectMember, "Assigned user is not a member of this project")
			}
			return err
		}
	}
	return nil
}
