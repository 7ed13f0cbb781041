package application

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
	"github.com/flowboard/flowboard-api/pkg/apperror"
	"github.com/flowboard/flowboard-api/pkg/mailer"
)

// invitationTTL is how long an invited user can accept before the token expires.
const invitationTTL = 7 * 24 * time.Hour

// EmailEnqueuer publishes email jobs to the outbound queue. Satisfied by
// helpers.RabbitPublisher; nil disables sending.
type EmailEnqueuer interface {
	PublishJSON(ctx context.Context, body any) error
}

// MemberService manages project memberships, including inviting users that
// do not have an account yet.
type MemberService struct {
	Members   repository.ProjectMemberRepository
	Users     repository.UserRepository
	Authz     *Authorizer
	Enqueuer  EmailEnqueuer
	Directory *UserDirectory
	Logger    *logrus.Logger

	// InvitationURL is the front-end page that consumes invitation tokens.
	InvitationURL string
}

// MemberWithUser joins a membership row with its user's public fields.
type MemberWithUser struct {
	Member entity.ProjectMember
	User   *entity.User
}

// Add enrolls the user with the given email into the project. Granting
// ADMIN requires the global SUPERADMIN role; a project admin can only add
// MEMBERs. Unknown emails get an invited account and an invitation email.
func (s *MemberService) Add(ctx context.Context, actor Actor, projectID, email string, role entity.ProjectRole) (*MemberWithUser, error) {
	chain, err := s.Authz.CheckProjectAdmin(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}

	if role != entity.ProjectRoleAdmin && role != entity.ProjectRoleMember {
		return nil, apperror.Validation(apperror.CodeValidation, "Role must be ADMIN or MEMBER")
	}
	if role == entity.ProjectRoleAdmin && !actor.IsSuperAdmin() {
		return nil, apperror.Forbidden(apperror.CodeSuperAdminRequired, "Only SuperAdmin can assign project managers (ADMIN role)")
	}

	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.Users.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		user, err = s.inviteUser(ctx, email, chain.Project.Name)
		if err != nil {
			return nil, err
		}
	}

	if _, err := s.Members.Get(ctx, chain.Project.ID, user.ID); err == nil {
		return nil, apperror.Validation(apperror.CodeMemberExists, "User is already a member of this project")
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	member := &entity.ProjectMember{
		ProjectID: chain.Project.ID,
		UserID:    user.ID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Members.Create(ctx, member); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperror.Validation(apperror.CodeMemberExists, "User is already a member of this project")
		}
		return nil, err
	}
	return &MemberWithUser{Member: *member, User: user}, nil
}

// inviteUser creates a placeholder account carrying an invitation token and
// enqueues the invitation email.
func (s *MemberService) inviteUser(ctx context.Context, email, projectName string) (*entity.User, error) {
	name := email
	if at := strings.IndexByte(email, '@'); at > 0 {
		name = email[:at]
	}
	user := &entity.User{
		Name:              name,
		Email:             email,
		AuthProvider:      entity.ProviderEmail,
		Role:              entity.RoleUser,
		InvitationToken:   uuid.NewString(),
		InvitationExpires: time.Now().UTC().Add(invitationTTL),
		CreatedAt:         time.Now().UTC(),
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.Enqueuer != nil {
		job := mailer.EmailJob{
			To:       email,
			Template: "invitation",
			Data: map[string]any{
				"ProjectName": projectName,
				"AcceptURL":   s.InvitationURL + "?token=" + user.InvitationToken,
				"ExpiresAt":   user.InvitationExpires.Format(time.RFC3339),
			},
		}
		if err := s.Enqueuer.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("email", email).Warn("invitation email enqueue failed")
		}
	}
	if s.Directory != nil {
		_ = s.Directory.IndexUser(ctx, user)
	}
	return user, nil
}

// Remove deletes a membership. Requires project admin.
func (s *MemberService) Remove(ctx context.Context, actor Actor, projectID, userID string) error {
	chain, err := s.Authz.CheckProjectAdmin(ctx, actor, projectID)
	if err != nil {
		return err
	}
	if err := s.Members.Delete(ctx, chain.Project.ID, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperror.NotFound(apperror.CodeMemberNotFound, "Member not found")
		}
		return err
	}
	return nil
}

// List returns the project's memberships joined with user details, admins
// first. Requires project membership.
func (s *MemberService) List(ctx context.Context, actor Actor, projectID string) ([]MemberWithUser, error) {
	chain, err := s.Authz.CheckProjectAccess(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	members, err := s.Members.ListByProject(ctx, chain.Project.ID)
	if err != nil {
		return nil, err
	}
	out := make([]MemberWithUser, 0, len(members))
	for _, m := range members {
		u, err := s.Users.GetByID(ctx, m.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				// Orphaned membership; skip rather than fail the listing.
				continue
			}
			return nil, err
		}
		out = append(out, MemberWithUser{Member: m, User: u})
	}
	return out, nil
}
