package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

func TestCardCreate(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	outsider := w.seedUser("outsider@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)
	column := w.seedColumn(w.seedBoard(project.ID, "sprint").ID, "todo", 0)

	t.Run("priority defaults to MEDIUM and order appends", func(t *testing.T) {
		first, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{Title: "one"})
		require.NoError(t, err)
		assert.Equal(t, entity.PriorityMedium, first.Priority)
		assert.Equal(t, 0, first.Order)
		assert.Equal(t, admin.ID, first.CreatedBy)

		second, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{Title: "two", Priority: entity.PriorityUrgent})
		require.NoError(t, err)
		assert.Equal(t, entity.PriorityUrgent, second.Priority)
		assert.Equal(t, 1, second.Order)
	})

	t.Run("invalid priority is rejected", func(t *testing.T) {
		_, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{Title: "x", Priority: "CRITICAL"})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})

	t.Run("assignees must belong to the project", func(t *testing.T) {
		_, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{Title: "x", AssignedTo: []string{outsider.ID}})
		assert.True(t, apperror.IsCode(err, apperror.CodeUserNotProjectMember))

		card, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{Title: "x", AssignedTo: []string{member.ID}})
		require.NoError(t, err)
		assert.Equal(t, []string{member.ID}, card.AssignedTo)
	})

	t.Run("members can create, non-members cannot", func(t *testing.T) {
		_, err := w.cardSvc.Create(ctx, member, column.ID, CreateCardInput{Title: "from-member"})
		assert.NoError(t, err)

		_, err = w.cardSvc.Create(ctx, outsider, column.ID, CreateCardInput{Title: "nope"})
		assert.True(t, apperror.IsCode(err, apperror.CodeNotProjectMember))
	})
}

func TestCardUpdatePatchSemantics(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)
	column := w.seedColumn(w.seedBoard(project.ID, "sprint").ID, "todo", 0)

	due := time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
	card, err := w.cardSvc.Create(ctx, admin, column.ID, CreateCardInput{
		Title:                "task",
		Description:          "details",
		Priority:             entity.PriorityHigh,
		ExpectedDeliveryDate: &due,
		AssignedTo:           []string{member.ID},
	})
	require.NoError(t, err)

	t.Run("unchanged patches keep every field", func(t *testing.T) {
		got, err := w.cardSvc.Update(ctx, admin, card.ID, UpdateCardInput{})
		require.NoError(t, err)
		assert.Equal(t, "task", got.Title)
		assert.Equal(t, "details", got.Description)
		assert.Equal(t, entity.PriorityHigh, got.Priority)
		require.NotNil(t, got.ExpectedDeliveryDate)
		assert.True(t, got.ExpectedDeliveryDate.Equal(due))
		assert.Equal(t, []string{member.ID}, got.AssignedTo)
	})

	t.Run("set patches assign new values", func(t *testing.T) {
		got, err := w.cardSvc.Update(ctx, admin, card.ID, UpdateCardInput{
			Title:       "renamed",
			Description: Set("new details"),
			Priority:    Set(entity.PriorityLow),
		})
		require.NoError(t, err)
		assert.Equal(t, "renamed", got.Title)
		assert.Equal(t, "new details", got.Description)
		assert.Equal(t, entity.PriorityLow, got.Priority)
	})

	t.Run("clear resets priority to MEDIUM and empties the rest", func(t *testing.T) {
		got, err := w.cardSvc.Update(ctx, admin, card.ID, UpdateCardInput{
			Description:          Clear[string](),
			Priority:             Clear[entity.CardPriority](),
			ExpectedDeliveryDate: Clear[time.Time](),
			AssignedTo:           Clear[[]string](),
		})
		require.NoError(t, err)
		assert.Empty(t, got.Description)
		assert.Equal(t, entity.PriorityMedium, got.Priority)
		assert.Nil(t, got.ExpectedDeliveryDate)
		assert.Nil(t, got.AssignedTo)
	})

	t.Run("set assignees are validated against the project", func(t *testing.T) {
		stranger := w.seedUser("stranger@example.com", entity.RoleUser)
		_, err := w.cardSvc.Update(ctx, admin, card.ID, UpdateCardInput{
			AssignedTo: Set([]string{stranger.ID}),
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeUserNotProjectMember))
	})

	t.Run("invalid priority in a set patch is rejected", func(t *testing.T) {
		_, err := w.cardSvc.Update(ctx, admin, card.ID, UpdateCardInput{
			Priority: Set(entity.CardPriority("WHENEVER")),
		})
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestCardMove(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	board := w.seedBoard(project.ID, "sprint")
	src := w.seedColumn(board.ID, "todo", 0)
	dst := w.seedColumn(board.ID, "doing", 1)
	card := w.seedCard(src.ID, "task", 0, admin.ID)

	t.Run("moves the card into the target column", func(t *testing.T) {
		got, err := w.cardSvc.Move(ctx, admin, card.ID, dst.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, dst.ID, got.ColumnID)
		assert.Equal(t, 3, got.Order)
	})

	t.Run("missing destination column is a 404", func(t *testing.T) {
		_, err := w.cardSvc.Move(ctx, admin, card.ID, nextID(), 0)
		assert.True(t, apperror.IsCode(err, apperror.CodeColumnNotFound))
	})

	t.Run("malformed destination id is a validation error", func(t *testing.T) {
		_, err := w.cardSvc.Move(ctx, admin, card.ID, "nope", 0)
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidColumnID))
	})
}

func TestCardReorder(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	alice := w.seedUser("alice@example.com", entity.RoleUser)
	bob := w.seedUser("bob@example.com", entity.RoleUser)
	super := w.seedUser("super@example.com", entity.RoleSuperAdmin)

	pa := w.seedProject("alice-project", alice)
	pb := w.seedProject("bob-project", bob)
	colA := w.seedColumn(w.seedBoard(pa.ID, "a").ID, "a0", 0)
	colB := w.seedColumn(w.seedBoard(pb.ID, "b").ID, "b0", 0)
	c1 := w.seedCard(colA.ID, "one", 0, alice.ID)
	c2 := w.seedCard(colA.ID, "two", 1, alice.ID)
	foreign := w.seedCard(colB.ID, "other", 0, bob.ID)

	t.Run("swap within a column", func(t *testing.T) {
		err := w.cardSvc.Reorder(ctx, alice, []ReorderItem{
			{ID: c1.ID, Order: 1},
			{ID: c2.ID, Order: 0},
		})
		require.NoError(t, err)

		cards, err := w.cards.ListByColumn(ctx, colA.ID)
		require.NoError(t, err)
		require.Len(t, cards, 2)
		assert.Equal(t, c2.ID, cards[0].ID)
		assert.Equal(t, c1.ID, cards[1].ID)
	})

	t.Run("unknown card id fails the batch", func(t *testing.T) {
		err := w.cardSvc.Reorder(ctx, alice, []ReorderItem{{ID: nextID(), Order: 0}})
		assert.True(t, apperror.IsCode(err, apperror.CodeCardNotFound))
	})

	t.Run("spanning a foreign project is denied", func(t *testing.T) {
		items := []ReorderItem{{ID: c1.ID, Order: 0}, {ID: foreign.ID, Order: 1}}
		err := w.cardSvc.Reorder(ctx, alice, items)
		assert.True(t, apperror.IsCode(err, apperror.CodeAccessDenied))

		assert.NoError(t, w.cardSvc.Reorder(ctx, super, items))
	})

	t.Run("empty batch is rejected", func(t *testing.T) {
		err := w.cardSvc.Reorder(ctx, alice, nil)
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestCardDelete(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	outsider := w.seedUser("outsider@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	column := w.seedColumn(w.seedBoard(project.ID, "sprint").ID, "todo", 0)
	card := w.seedCard(column.ID, "task", 0, admin.ID)

	err := w.cardSvc.Delete(ctx, outsider, card.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeNotProjectMember))

	require.NoError(t, w.cardSvc.Delete(ctx, admin, card.ID))
	_, err = w.cards.GetByID(ctx, card.ID)
	assert.Error(t, err)
}
