package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

func TestAuthorizerProjectAccess(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	outsider := w.seedUser("outsider@example.com", entity.RoleUser)
	super := w.seedUser("super@example.com", entity.RoleSuperAdmin)
	project := w.seedProject("alpha", admin)

	t.Run("member passes", func(t *testing.T) {
		chain, err := w.authz.CheckProjectAccess(ctx, admin, project.ID)
		require.NoError(t, err)
		require.NotNil(t, chain.Member)
		assert.Equal(t, project.ID, chain.Project.ID)
	})

	t.Run("non-member is forbidden", func(t *testing.T) {
		_, err := w.authz.CheckProjectAccess(ctx, outsider, project.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotProjectMember))
	})

	t.Run("superadmin bypasses membership", func(t *testing.T) {
		chain, err := w.authz.CheckProjectAccess(ctx, super, project.ID)
		require.NoError(t, err)
		assert.Nil(t, chain.Member)
	})

	t.Run("missing project is 404 even for superadmin", func(t *testing.T) {
		_, err := w.authz.CheckProjectAccess(ctx, super, nextID())
		assert.True(t, apperror.IsCode(err, apperror.CodeProjectNotFound))
	})

	t.Run("malformed id is a validation error", func(t *testing.T) {
		_, err := w.authz.CheckProjectAccess(ctx, admin, "not-an-id")
		assert.True(t, apperror.IsCode(err, apperror.CodeInvalidProjectID))
	})
}

func TestAuthorizerAdminRule(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)

	_, err := w.authz.CheckProjectAdmin(ctx, admin, project.ID)
	assert.NoError(t, err)

	_, err = w.authz.CheckProjectAdmin(ctx, member, project.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeAdminRequired))
}

func TestAuthorizerChainWalk(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	outsider := w.seedUser("outsider@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	board := w.seedBoard(project.ID, "sprint")
	column := w.seedColumn(board.ID, "todo", 0)
	card := w.seedCard(column.ID, "task", 0, admin.ID)

	t.Run("card resolves the full chain", func(t *testing.T) {
		chain, err := w.authz.CheckCardAccess(ctx, admin, card.ID)
		require.NoError(t, err)
		assert.Equal(t, project.ID, chain.Project.ID)
		assert.Equal(t, board.ID, chain.Board.ID)
		assert.Equal(t, column.ID, chain.Column.ID)
		assert.Equal(t, card.ID, chain.Card.ID)
	})

	t.Run("membership is derived from the leaf, not the request", func(t *testing.T) {
		_, err := w.authz.CheckCardAccess(ctx, outsider, card.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotProjectMember))
	})

	t.Run("existence check precedes the role check", func(t *testing.T) {
		_, err := w.authz.CheckCardAccess(ctx, outsider, nextID())
		assert.True(t, apperror.IsCode(err, apperror.CodeCardNotFound))
	})

	t.Run("column and board misses name their own resource", func(t *testing.T) {
		_, err := w.authz.CheckColumnAccess(ctx, admin, nextID())
		assert.True(t, apperror.IsCode(err, apperror.CodeColumnNotFound))

		_, err = w.authz.CheckBoardAccess(ctx, admin, nextID())
		assert.True(t, apperror.IsCode(err, apperror.CodeBoardNotFound))
	})
}
