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

// ProjectService owns the project lifecycle, including the cascade that
// removes every descendant when a project is deleted.
type ProjectService struct {
	Projects repository.ProjectRepository
	Members  repository.ProjectMemberRepository
	Boards   repository.BoardRepository
	Columns  repository.ColumnRepository
	Cards    repository.CardRepository
	Users    repository.UserRepository
	Authz    *Authorizer
	Logger   *logrus.Logger

	// SuperAdminSeesAll controls superadmin listing: all projects
	// unconditionally when true, membership-or-creator when false.
	SuperAdminSeesAll bool
}

// ProjectWithRole pairs a project with the caller's role in it. Role is
// empty for superadmins browsing projects they are not members of.
type ProjectWithRole struct {
	Project entity.Project
	Role    entity.ProjectRole
}

// Create creates a project and enrolls its initial ADMIN member. When
// managerEmail is given that user becomes the admin; otherwise the creator
// does. Assigning a manager other than yourself requires SUPERADMIN.
func (s *ProjectService) Create(ctx context.Context, actor Actor, name, managerEmail string) (*entity.Project, error) {
	adminUserID := actor.ID
	if managerEmail != "" {
		manager, err := s.Users.GetByEmail(ctx, strings.ToLower(managerEmail))
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, apperror.NotFound(apperror.CodeUserNotFound, "User not found")
			}
			return nil, err
		}
		if manager.ID != actor.ID {
			if err := s.Authz.CheckSuperAdmin(actor); err != nil {
				return nil, err
			}
		}
		adminUserID = manager.ID
	}

	project := &entity.Project{
		Name:      strings.TrimSpace(name),
		CreatedBy: actor.ID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Projects.Create(ctx, project); err != nil {
		return nil, err
	}

	member := &entity.ProjectMember{
		ProjectID: project.ID,
		UserID:    adminUserID,
		Role:      entity.ProjectRoleAdmin,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Members.Create(ctx, member); err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{"project_id": project.ID, "admin_user_id": adminUserID}).Info("project created")
	}
	return project, nil
}

// ListForActor returns the projects visible to the actor together with the
// actor's role in each.
func (s *ProjectService) ListForActor(ctx context.Context, actor Actor) ([]ProjectWithRole, error) {
	memberships, err := s.Members.ListByUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	roleByProject := make(map[string]entity.ProjectRole, len(memberships))
	for _, m := range memberships {
		roleByProject[m.ProjectID] = m.Role
	}

	var projects []entity.Project
	if actor.IsSuperAdmin() && s.SuperAdminSeesAll {
		projects, err = s.Projects.ListAll(ctx)
	} else {
		ids := make([]string, 0, len(memberships))
		for _, m := range memberships {
			ids = append(ids, m.ProjectID)
		}
		projects, err = s.Projects.ListByIDs(ctx, ids)
	}
	if err != nil {
		return nil, err
	}

	out := make([]ProjectWithRole, 0, len(projects))
	for _, p := range projects {
		out = append(out, ProjectWithRole{Project: p, Role: roleByProject[p.ID]})
	}
	return out, nil
}

// Get loads a single project after the membership check.
func (s *ProjectService) Get(ctx context.Context, actor Actor, projectID string) (*entity.Project, error) {
	chain, err := s.Authz.CheckProjectAccess(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	return chain.Project, nil
}

// Update renames a project. Requires project admin.
func (s *ProjectService) Update(ctx context.Context, actor Actor, projectID, name string) (*entity.Project, error) {
	chain, err := s.Authz.CheckProjectAdmin(ctx, actor, projectID)
	if err != nil {
		return nil, err
	}
	chain.Project.Name = strings.TrimSpace(name)
	if err := s.Projects.Update(ctx, chain.Project); err != nil {
		return nil, err
	}
	return chain.Project, nil
}

// Delete removes the project and all of its descendants, leaf to root:
// cards, then columns, then boards, then memberships, then the project
// itself. The steps are separate writes; a crash mid-way leaves only
// deeper orphans that no live access path can reach, never a parent
// referencing deleted children.
func (s *ProjectService) Delete(ctx context.Context, actor Actor, projectID string) error {
	chain, err := s.Authz.CheckProjectAdmin(ctx, actor, projectID)
	if err != nil {
		return err
	}

	boards, err := s.Boards.ListByProject(ctx, chain.Project.ID)
	if err != nil {
		return err
	}
	boardIDs := make([]string, 0, len(boards))
	for _, b := range boards {
		boardIDs = append(boardIDs, b.ID)
	}

	columns, err := s.Columns.ListByBoards(ctx, boardIDs)
	if err != nil {
		return err
	}
	columnIDs := make([]string, 0, len(columns))
	for _, c := range columns {
		columnIDs = append(columnIDs, c.ID)
	}

	if err := s.Cards.DeleteByColumns(ctx, columnIDs); err != nil {
		return err
	}
	if err := s.Columns.DeleteByBoards(ctx, boardIDs); err != nil {
		return err
	}
	if err := s.Boards.DeleteByProject(ctx, chain.Project.ID); err != nil {
		return err
	}
	if err := s.Members.DeleteByProject(ctx, chain.Project.ID); err != nil {
		return err
	}
	if err := s.Projects.Delete(ctx, chain.Project.ID); err != nil {
		return err
	}

	if s.Logger != nil {
		s.Logger.WithFields(logrus.Fields{
			"project_id": chain.Project.ID,
			"boards":     len(boardIDs),
			"columns":    len(columnIDs),
		}).Info("project deleted")
	}
	return nil
}
