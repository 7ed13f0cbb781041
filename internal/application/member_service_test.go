package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/apperror"
	"github.com/flowboard/flowboard-api/pkg/mailer"
)

type captureEnqueuer struct {
	jobs []mailer.EmailJob
}

func (c *captureEnqueuer) PublishJSON(_ context.Context, body any) error {
	if job, ok := body.(mailer.EmailJob); ok {
		c.jobs = append(c.jobs, job)
	}
	return nil
}

func TestMemberAdd(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	super := w.seedUser("super@example.com", entity.RoleSuperAdmin)
	joiner := w.seedUser("joiner@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)

	t.Run("admin adds an existing user as member", func(t *testing.T) {
		got, err := w.memberSvc.Add(ctx, admin, project.ID, "Joiner@Example.com", entity.ProjectRoleMember)
		require.NoError(t, err)
		assert.Equal(t, joiner.ID, got.Member.UserID)
		assert.Equal(t, entity.ProjectRoleMember, got.Member.Role)
		assert.Equal(t, joiner.Email, got.User.Email)
	})

	t.Run("adding twice reports the duplicate", func(t *testing.T) {
		_, err := w.memberSvc.Add(ctx, admin, project.ID, "joiner@example.com", entity.ProjectRoleMember)
		assert.True(t, apperror.IsCode(err, apperror.CodeMemberExists))
	})

	t.Run("granting ADMIN needs the global superadmin role", func(t *testing.T) {
		other := w.seedUser("other@example.com", entity.RoleUser)

		_, err := w.memberSvc.Add(ctx, admin, project.ID, other.Email, entity.ProjectRoleAdmin)
		assert.True(t, apperror.IsCode(err, apperror.CodeSuperAdminRequired))

		got, err := w.memberSvc.Add(ctx, super, project.ID, other.Email, entity.ProjectRoleAdmin)
		require.NoError(t, err)
		assert.Equal(t, entity.ProjectRoleAdmin, got.Member.Role)
	})

	t.Run("plain members cannot add", func(t *testing.T) {
		member := w.seedUser("member@example.com", entity.RoleUser)
		w.addMember(project.ID, member, entity.ProjectRoleMember)

		_, err := w.memberSvc.Add(ctx, member, project.ID, "anyone@example.com", entity.ProjectRoleMember)
		assert.True(t, apperror.IsCode(err, apperror.CodeAdminRequired))
	})

	t.Run("bogus role is rejected", func(t *testing.T) {
		_, err := w.memberSvc.Add(ctx, admin, project.ID, joiner.Email, entity.ProjectRole("OWNER"))
		assert.True(t, apperror.IsCode(err, apperror.CodeValidation))
	})
}

func TestMemberAddInvitesUnknownEmail(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	enqueuer := &captureEnqueuer{}
	w.memberSvc.Enqueuer = enqueuer

	admin := w.seedUser("admin@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)

	got, err := w.memberSvc.Add(ctx, admin, project.ID, "newcomer@example.com", entity.ProjectRoleMember)
	require.NoError(t, err)

	invited := got.User
	assert.Equal(t, "newcomer@example.com", invited.Email)
	assert.Equal(t, "newcomer", invited.Name)
	assert.NotEmpty(t, invited.InvitationToken)
	assert.True(t, invited.InvitationExpires.After(time.Now().Add(6*24*time.Hour)))
	assert.Empty(t, invited.PasswordHash)

	require.Len(t, enqueuer.jobs, 1)
	job := enqueuer.jobs[0]
	assert.Equal(t, "newcomer@example.com", job.To)
	assert.Equal(t, "invitation", job.Template)
	assert.Equal(t, "alpha", job.Data["ProjectName"])
	assert.Contains(t, job.Data["AcceptURL"], "token="+invited.InvitationToken)

	// The placeholder account is enrolled immediately.
	m, err := w.members.Get(ctx, project.ID, invited.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.ProjectRoleMember, m.Role)
}

func TestMemberRemove(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)

	require.NoError(t, w.memberSvc.Remove(ctx, admin, project.ID, member.ID))

	_, err := w.members.Get(ctx, project.ID, member.ID)
	assert.Error(t, err)

	err = w.memberSvc.Remove(ctx, admin, project.ID, member.ID)
	assert.True(t, apperror.IsCode(err, apperror.CodeMemberNotFound))
}

func TestMemberList(t *testing.T) {
	ctx := context.Background()
	w := newWorld()
	admin := w.seedUser("admin@example.com", entity.RoleUser)
	member := w.seedUser("member@example.com", entity.RoleUser)
	outsider := w.seedUser("outsider@example.com", entity.RoleUser)
	project := w.seedProject("alpha", admin)
	w.addMember(project.ID, member, entity.ProjectRoleMember)

	t.Run("admins sort before members and users are joined", func(t *testing.T) {
		got, err := w.memberSvc.List(ctx, member, project.ID)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, entity.ProjectRoleAdmin, got[0].Member.Role)
		assert.Equal(t, "admin@example.com", got[0].User.Email)
		assert.Equal(t, entity.ProjectRoleMember, got[1].Member.Role)
	})

	t.Run("orphaned memberships are skipped", func(t *testing.T) {
		ghost := &entity.ProjectMember{ProjectID: project.ID, UserID: nextID(), Role: entity.ProjectRoleMember}
		require.NoError(t, w.members.Create(ctx, ghost))

		got, err := w.memberSvc.List(ctx, admin, project.ID)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("non-members cannot list", func(t *testing.T) {
		_, err := w.memberSvc.List(ctx, outsider, project.ID)
		assert.True(t, apperror.IsCode(err, apperror.CodeNotProjectMember))
	})
}
