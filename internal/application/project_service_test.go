package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/apperror"
)

func TestProjectCreateManagerPolicy(t *testing.T) {
	ctx := context.Background()

	t.Run("creator becomes admin by default", func(t *testing.T) {
		w := newWorld()
		actor := w.seedUser("creator@example.com", entity.RoleUser)

		p, err := w.projectSvc.Create(ctx, actor, "alpha", "")
		require.NoError(t, err)

		m, err := w.members.Get(ctx, p.ID, actor.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectRoleAdmin, m.Role)
	})

	t.Run("manager email assigns that user as admin", func(t *testing.T) {
		w := newWorld()
		super := w.seedUser("super@example.com", entity.RoleSuperAdmin)
		manager := w.seedUser("manager@example.com", entity.RoleUser)

		p, err := w.projectSvc.Create(ctx, super, "alpha", "manager@example.com")
		require.NoError(t, err)

		m, err := w.members.Get(ctx, p.ID, manager.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectRoleAdmin, m.Role)
		assert.Equal(t, super.ID, p.CreatedBy)

		// The creator is not enrolled when someone else is the manager.
		_, err = w.members.Get(ctx, p.ID, super.ID)
		assert.Error(t, err)
	})

	t.Run("assigning another manager requires superadmin", func(t *testing.T) {
		w := newWorld()
		actor := w.seedUser("creator@example.com", entity.RoleUser)
		w.seedUser("manager@example.com", entity.RoleUser)

		_, err := w.projectSvc.Create(ctx, actor, "alpha", "manager@example.com")
		assert.True(t, apperror.IsCode(err, apperror.CodeSuperAdminRequired))
	})

	t.Run("naming yourself as manager needs no privilege", func(t *testing.T) {
		w := newWorld()
		actor := w.seedUser("creator@example.com", entity.RoleUser)

		p, err := w.projectSvc.Create(ctx, actor, "alpha", "creator@example.com")
		require.NoError(t, err)
		m, err := w.members.Get(ctx, p.ID, actor.ID)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectRoleAdmin, m.Role)
	})

	t.Run("unknown manager email fails before any write", func(t *testing.T) {
		w := newWorld()
		super := w.seedUser("super@example.com", entity.RoleSuperAdmin)

		_, err := w.projectSvc.Create(ctx, super, "alpha", "ghost@example.com")
		assert.True(t, apperror.IsCode(err, apperror.CodeUserNotFound))
		all, _ := w.projects.ListAll(ctx)
		assert.Empty(t, all)
	})
}

func TestProjectListScoping(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	alice := w.seedUser("alice@example.com", entity.RoleUser)
	bob := w.seedUser("bob@example.com", entity.RoleUser)
	super := w.seedUser("super@example.com", entity.RoleSuperAdmin)

	pa := w.seedProject("alice-project", alice)
	w.seedProject("bob-project", bob)

	t.Run("members see only their projects with their role", func(t *testing.T) {
		got, err := w.projectSvc.ListForActor(ctx, alice)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, pa.ID, got[0].Project.ID)
		assert.Equal(t, entity.ProjectRoleAdmin, got[0].Role)
	})

	t.Run("superadmin sees everything when enabled", func(t *testing.T) {
		got, err := w.projectSvc.ListForActor(ctx, super)
		require.NoError(t, err)
		assert.Len(t, got, 2)
		for _, p := range got {
			assert.Empty(t, p.Role)
		}
	})

	t.Run("superadmin scoping can be restricted to memberships", func(t *testing.T) {
		w.projectSvc.SuperAdminSeesAll = false
		defer func() { w.projectSvc.SuperAdminSeesAll = true }()

		got, err := w.projectSvc.ListForActor(ctx, super)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestProjectDeleteCascade(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	project := w.seedProject("doomed", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)

	// Two boards, two columns each, two cards per column.
	for b := 0; b < 2; b++ {
		board := w.seedBoard(project.ID, "board")
		for c := 0; c < 2; c++ {
			column := w.seedColumn(board.ID, "col", c)
			for k := 0; k < 2; k++ {
				w.seedCard(column.ID, "card", k, admin.ID)
			}
		}
	}

	// An unrelated project must survive untouched.
	other := w.seedProject("survivor", admin)
	otherBoard := w.seedBoard(other.ID, "keep")
	otherColumn := w.seedColumn(otherBoard.ID, "keep", 0)
	otherCard := w.seedCard(otherColumn.ID, "keep", 0, admin.ID)

	t.Run("member cannot delete", func(t *testing.T) {
		err := w.projectSvc.Delete(ctx, member, project.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeAdminRequired))
	})

	t.Run("admin delete removes every descendant", func(t *testing.T) {
		require.NoError(t, w.projectSvc.Delete(ctx, admin, project.ID))

		_, err := w.projects.GetByID(ctx, project.ID)
		assert.Error(t, err)
		boards, boardsErr := w.boards.ListByProject(ctx, project.ID)
		assert.Empty(t, mustList(t, boards, boardsErr))

		members, _ := w.members.ListByProject(ctx, project.ID)
		assert.Empty(t, members)

		// 8 cards and 4 columns are gone; only the survivor's remain.
		assert.Len(t, w.cards.cards, 1)
		assert.Len(t, w.columns.columns, 1)
		_, err = w.cards.GetByID(ctx, otherCard.ID)
		assert.NoError(t, err)
	})

	t.Run("deleting twice is a 404", func(t *testing.T) {
		err := w.projectSvc.Delete(ctx, admin, project.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeProjectNotFound))
	})
}

func mustList[T any](t *testing.T, items []T, err error) []T {
	t.Helper()
	require.NoError(t, err)
	return items
}
