package application

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/domain/repository"
)

// In-memory repositories backing the service tests.

var idCounter int
var idMu sync.Mutex

func nextID() string {
	idMu.Lock()
	defer idMu.Unlock()
	idCounter++
	return fmt.Sprintf("%024x", idCounter)
}

type fakeUserRepo struct {
	users map[string]entity.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]entity.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *entity.User) error {
	for _, e := range r.users {
		if e.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	if u.ID == "" {
		u.ID = nextID()
	}
	r.users[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*entity.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByGoogleID(_ context.Context, googleID string) (*entity.User, error) {
	for _, u := range r.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByInvitationToken(_ context.Context, token string) (*entity.User, error) {
	for _, u := range r.users {
		if u.InvitationToken != "" && u.InvitationToken == token {
			u := u
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *entity.User) error {
	if _, ok := r.users[u.ID]; !ok {
		return repository.ErrNotFound
	}
	r.users[u.ID] = *u
	return nil
}

type fakeProjectRepo struct {
	projects map[string]entity.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{projects: map[string]entity.Project{}}
}

func (r *fakeProjectRepo) Create(_ context.Context, p *entity.Project) error {
	if p.ID == "" {
		p.ID = nextID()
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *fakeProjectRepo) GetByID(_ context.Context, id string) (*entity.Project, error) {
	p, ok := r.projects[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *fakeProjectRepo) ListByIDs(_ context.Context, ids []string) ([]entity.Project, error) {
	out := []entity.Project{}
	for _, id := range ids {
		if p, ok := r.projects[id]; ok {
			out = append(out, p)
		}
	}
	sortProjects(out)
	return out, nil
}

func (r *fakeProjectRepo) ListAll(_ context.Context) ([]entity.Project, error) {
	out := []entity.Project{}
	for _, p := range r.projects {
		out = append(out, p)
	}
	sortProjects(out)
	return out, nil
}

func sortProjects(ps []entity.Project) {
	sort.Slice(ps, func(i, j int) bool { return ps[i].CreatedAt.After(ps[j].CreatedAt) })
}

func (r *fakeProjectRepo) Update(_ context.Context, p *entity.Project) error {
	if _, ok := r.projects[p.ID]; !ok {
		return repository.ErrNotFound
	}
	r.projects[p.ID] = *p
	return nil
}

func (r *fakeProjectRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.projects[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.projects, id)
	return nil
}

type fakeMemberRepo struct {
	members map[string]entity.ProjectMember
}

func newFakeMemberRepo() *fakeMemberRepo {
	return &fakeMemberRepo{members: map[string]entity.ProjectMember{}}
}

func memberKey(projectID, userID string) string { return projectID + "/" + userID }

func (r *fakeMemberRepo) Create(_ context.Context, m *entity.ProjectMember) error {
	key := memberKey(m.ProjectID, m.UserID)
	if _, ok := r.members[key]; ok {
		return repository.ErrDuplicate
	}
	if m.ID == "" {
		m.ID = nextID()
	}
	r.members[key] = *m
	return nil
}

func (r *fakeMemberRepo) Get(_ context.Context, projectID, userID string) (*entity.ProjectMember, error) {
	m, ok := r.members[memberKey(projectID, userID)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (r *fakeMemberRepo) ListByProject(_ context.Context, projectID string) ([]entity.ProjectMember, error) {
	out := []entity.ProjectMember{}
	for _, m := range r.members {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Role != out[j].Role {
			return out[i].Role < out[j].Role
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMemberRepo) ListByUser(_ context.Context, userID string) ([]entity.ProjectMember, error) {
	out := []entity.ProjectMember{}
	for _, m := range r.members {
		if m.UserID == userID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMemberRepo) CountMembershipIn(_ context.Context, projectIDs []string, userID string) (int64, error) {
	var n int64
	for _, pid := range projectIDs {
		if _, ok := r.members[memberKey(pid, userID)]; ok {
			n++
		}
	}
	return n, nil
}

func (r *fakeMemberRepo) Delete(_ context.Context, projectID, userID string) error {
	key := memberKey(projectID, userID)
	if _, ok := r.members[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.members, key)
	return nil
}

func (r *fakeMemberRepo) DeleteByProject(_ context.Context, projectID string) error {
	for key, m := range r.members {
		if m.ProjectID == projectID {
			delete(r.members, key)
		}
	}
	return nil
}

type fakeBoardRepo struct {
	boards map[string]entity.Board
}

func newFakeBoardRepo() *fakeBoardRepo {
	return &fakeBoardRepo{boards: map[string]entity.Board{}}
}

func (r *fakeBoardRepo) Create(_ context.Context, b *entity.Board) error {
	if b.ID == "" {
		b.ID = nextID()
	}
	r.boards[b.ID] = *b
	return nil
}

func (r *fakeBoardRepo) GetByID(_ context.Context, id string) (*entity.Board, error) {
	b, ok := r.boards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &b, nil
}

func (r *fakeBoardRepo) ListByProject(_ context.Context, projectID string) ([]entity.Board, error) {
	out := []entity.Board{}
	for _, b := range r.boards {
		if b.ProjectID == projectID {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *fakeBoardRepo) ListByIDs(_ context.Context, ids []string) ([]entity.Board, error) {
	out := []entity.Board{}
	for _, id := range ids {
		if b, ok := r.boards[id]; ok {
			out = append(out, b)
		}
	}
	return out, nil
}

func (r *fakeBoardRepo) Update(_ context.Context, b *entity.Board) error {
	if _, ok := r.boards[b.ID]; !ok {
		return repository.ErrNotFound
	}
	r.boards[b.ID] = *b
	return nil
}

func (r *fakeBoardRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.boards[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.boards, id)
	return nil
}

func (r *fakeBoardRepo) DeleteByProject(_ context.Context, projectID string) error {
	for id, b := range r.boards {
		if b.ProjectID == projectID {
			delete(r.boards, id)
		}
	}
	return nil
}

type fakeColumnRepo struct {
	columns map[string]entity.Column
}

func newFakeColumnRepo() *fakeColumnRepo {
	return &fakeColumnRepo{columns: map[string]entity.Column{}}
}

func (r *fakeColumnRepo) Create(_ context.Context, c *entity.Column) error {
	if c.ID == "" {
		c.ID = nextID()
	}
	r.columns[c.ID] = *c
	return nil
}

func (r *fakeColumnRepo) GetByID(_ context.Context, id string) (*entity.Column, error) {
	c, ok := r.columns[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeColumnRepo) ListByBoard(_ context.Context, boardID string) ([]entity.Column, error) {
	out := []entity.Column{}
	for _, c := range r.columns {
		if c.BoardID == boardID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeColumnRepo) ListByIDs(_ context.Context, ids []string) ([]entity.Column, error) {
	out := []entity.Column{}
	for _, id := range ids {
		if c, ok := r.columns[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeColumnRepo) ListByBoards(_ context.Context, boardIDs []string) ([]entity.Column, error) {
	out := []entity.Column{}
	for _, bid := range boardIDs {
		for _, c := range r.columns {
			if c.BoardID == bid {
				out = append(out, c)
			}
		}
	}
	return out, nil
}

func (r *fakeColumnRepo) MaxOrder(_ context.Context, boardID string) (int, bool, error) {
	max, found := 0, false
	for _, c := range r.columns {
		if c.BoardID == boardID && (!found || c.Order > max) {
			max, found = c.Order, true
		}
	}
	return max, found, nil
}

func (r *fakeColumnRepo) Update(_ context.Context, c *entity.Column) error {
	if _, ok := r.columns[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.columns[c.ID] = *c
	return nil
}

func (r *fakeColumnRepo) BulkSetOrder(_ context.Context, updates []repository.OrderUpdate) error {
	for _, u := range updates {
		if c, ok := r.columns[u.ID]; ok {
			c.Order = u.Order
			r.columns[u.ID] = c
		}
	}
	return nil
}

func (r *fakeColumnRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.columns[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.columns, id)
	return nil
}

func (r *fakeColumnRepo) DeleteByBoard(_ context.Context, boardID string) error {
	for id, c := range r.columns {
		if c.BoardID == boardID {
			delete(r.columns, id)
		}
	}
	return nil
}

func (r *fakeColumnRepo) DeleteByBoards(_ context.Context, boardIDs []string) error {
	for _, bid := range boardIDs {
		_ = r.DeleteByBoard(nil, bid)
	}
	return nil
}

type fakeCardRepo struct {
	cards map[string]entity.Card
}

func newFakeCardRepo() *fakeCardRepo {
	return &fakeCardRepo{cards: map[string]entity.Card{}}
}

func (r *fakeCardRepo) Create(_ context.Context, c *entity.Card) error {
	if c.ID == "" {
		c.ID = nextID()
	}
	r.cards[c.ID] = *c
	return nil
}

func (r *fakeCardRepo) GetByID(_ context.Context, id string) (*entity.Card, error) {
	c, ok := r.cards[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &c, nil
}

func (r *fakeCardRepo) ListByColumn(_ context.Context, columnID string) ([]entity.Card, error) {
	out := []entity.Card{}
	for _, c := range r.cards {
		if c.ColumnID == columnID {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeCardRepo) ListByIDs(_ context.Context, ids []string) ([]entity.Card, error) {
	out := []entity.Card{}
	for _, id := range ids {
		if c, ok := r.cards[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (r *fakeCardRepo) ListByColumns(_ context.Context, columnIDs []string) ([]entity.Card, error) {
	out := []entity.Card{}
	for _, cid := range columnIDs {
		for _, c := range r.cards {
			if c.ColumnID == cid {
				out = append(out, c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out, nil
}

func (r *fakeCardRepo) MaxOrder(_ context.Context, columnID string) (int, bool, error) {
	max, found := 0, false
	for _, c := range r.cards {
		if c.ColumnID == columnID && (!found || c.Order > max) {
			max, found = c.Order, true
		}
	}
	return max, found, nil
}

func (r *fakeCardRepo) Update(_ context.Context, c *entity.Card) error {
	if _, ok := r.cards[c.ID]; !ok {
		return repository.ErrNotFound
	}
	r.cards[c.ID] = *c
	return nil
}

func (r *fakeCardRepo) BulkSetOrder(_ context.Context, updates []repository.OrderUpdate) error {
	for _, u := range updates {
		if c, ok := r.cards[u.ID]; ok {
			c.Order = u.Order
			r.cards[u.ID] = c
		}
	}
	return nil
}

func (r *fakeCardRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.cards[id]; !ok {
		return repository.ErrNotFound
	}
	delete(r.cards, id)
	return nil
}

func (r *fakeCardRepo) DeleteByColumn(_ context.Context, columnID string) error {
	for id, c := range r.cards {
		if c.ColumnID == columnID {
			delete(r.cards, id)
		}
	}
	return nil
}

func (r *fakeCardRepo) DeleteByColumns(_ context.Context, columnIDs []string) error {
	for _, cid := range columnIDs {
		_ = r.DeleteByColumn(nil, cid)
	}
	return nil
}

// world bundles the fakes plus services wired against them.
type world struct {
	users    *fakeUserRepo
	projects *fakeProjectRepo
	members  *fakeMemberRepo
	boards   *fakeBoardRepo
	columns  *fakeColumnRepo
	cards    *fakeCardRepo

	authz      *Authorizer
	projectSvc *ProjectService
	memberSvc  *MemberService
	boardSvc   *BoardService
	columnSvc  *ColumnService
	cardSvc    *CardService
}

func newWorld() *world {
	w := &world{
		users:    newFakeUserRepo(),
		projects: newFakeProjectRepo(),
		members:  newFakeMemberRepo(),
		boards:   newFakeBoardRepo(),
		columns:  newFakeColumnRepo(),
		cards:    newFakeCardRepo(),
	}
	w.authz = NewAuthorizer(w.projects, w.members, w.boards, w.columns, w.cards)
	w.projectSvc = &ProjectService{
		Projects: w.projects, Members: w.members, Boards: w.boards,
		Columns: w.columns, Cards: w.cards, Users: w.users,
		Authz: w.authz, SuperAdminSeesAll: true,
	}
	w.memberSvc = &MemberService{
		Members: w.members, Users: w.users, Authz: w.authz,
		InvitationURL: "http://localhost:3000/invitation/accept",
	}
	w.boardSvc = &BoardService{Boards: w.boards, Columns: w.columns, Cards: w.cards, Authz: w.authz}
	w.columnSvc = &ColumnService{Columns: w.columns, Boards: w.boards, Members: w.members, Cards: w.cards, Authz: w.authz}
	w.cardSvc = &CardService{Cards: w.cards, Columns: w.columns, Boards: w.boards, Members: w.members, Authz: w.authz}
	return w
}

// seedUser registers a user and returns its actor.
func (w *world) seedUser(email string, role entity.GlobalRole) Actor {
	u := &entity.User{Name: email, Email: email, Role: role, AuthProvider: entity.ProviderEmail}
	_ = w.users.Create(nil, u)
	return Actor{ID: u.ID, Email: u.Email, Role: u.Role}
}

// seedProject creates a project with the given admin member.
func (w *world) seedProject(name string, admin Actor) *entity.Project {
	p := &entity.Project{Name: name, CreatedBy: admin.ID}
	_ = w.projects.Create(nil, p)
	_ = w.members.Create(nil, &entity.ProjectMember{
		ProjectID: p.ID, UserID: admin.ID, Role: entity.ProjectRoleAdmin,
	})
	return p
}

func (w *world) addMember(projectID string, actor Actor, role entity.ProjectRole) {
	_ = w.members.Create(nil, &entity.ProjectMember{ProjectID: projectID, UserID: actor.ID, Role: role})
}

func (w *world) seedBoard(projectID, name string) *entity.Board {
	b := &entity.Board{ProjectID: projectID, Name: name}
	_ = w.boards.Create(nil, b)
	return b
}

func (w *world) seedColumn(boardID, name string, order int) *entity.Column {
	c := &entity.Column{BoardID: boardID, Name: name, Color: entity.DefaultColumnColor, Order: order}
	_ = w.columns.Create(nil, c)
	return c
}

func (w *world) seedCard(columnID, title string, order int, createdBy string) *entity.Card {
	c := &entity.Card{ColumnID: columnID, Title: title, Priority: entity.PriorityMedium, Order: order, CreatedBy: createdBy}
	_ = w.cards.Create(nil, c)
	return c
}
