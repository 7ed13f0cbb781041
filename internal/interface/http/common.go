package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
)

// actorFrom rebuilds the caller identity from the context keys set by the
// auth middleware.
func actorFrom(c *gin.Context) application.Actor {
	return application.Actor{
		ID:    c.GetString(middleware.CtxUserIDKey),
		Email: c.GetString(middleware.CtxUserEmailKey),
		Role:  entity.GlobalRole(c.GetString(middleware.CtxUserRoleKey)),
	}
}

// userJSON is the public view of a user. Password hash and invitation token
// never leave the server.
type userJSON struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	AvatarURL    string    `json:"avatarUrl,omitempty"`
	AuthProvider string    `json:"authProvider"`
	Role         string    `json:"role"`
	Invited      bool      `json:"invited,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func toUserJSON(u *entity.User) userJSON {
	return userJSON{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		AvatarURL:    u.AvatarURL,
		AuthProvider: string(u.AuthProvider),
		Role:         string(u.Role),
		Invited:      u.HasPendingInvitation(),
		CreatedAt:    u.CreatedAt,
	}
}

type tokenJSON struct {
	AccessToken        string    `json:"accessToken"`
	AccessTokenExpiry  time.Time `json:"accessTokenExpiry"`
	RefreshToken       string    `json:"refreshToken"`
	RefreshTokenExpiry time.Time `json:"refreshTokenExpiry"`
}

func toTokenJSON(p application.TokenPair) tokenJSON {
	return tokenJSON{
		AccessToken:        p.AccessToken,
		AccessTokenExpiry:  p.AccessTokenExpiry,
		RefreshToken:       p.RefreshToken,
		RefreshTokenExpiry: p.RefreshTokenExpiry,
	}
}

type projectJSON struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedBy string    `json:"createdBy"`
	Role      string    `json:"role,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toProjectJSON(p *entity.Project, role entity.ProjectRole) projectJSON {
	return projectJSON{
		ID:        p.ID,
		Name:      p.Name,
		CreatedBy: p.CreatedBy,
		Role:      string(role),
		CreatedAt: p.CreatedAt,
	}
}

type boardJSON struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

func toBoardJSON(b *entity.Board) boardJSON {
	return boardJSON{ID: b.ID, ProjectID: b.ProjectID, Name: b.Name, CreatedAt: b.CreatedAt}
}

type columnJSON struct {
	ID      string `json:"id"`
	BoardID string `json:"boardId"`
	Name    string `json:"name"`
	Color   string `json:"color"`
	Order   int    `json:"order"`
}

func toColumnJSON(col *entity.Column) columnJSON {
	return columnJSON{ID: col.ID, BoardID: col.BoardID, Name: col.Name, Color: col.Color, Order: col.Order}
}

type cardJSON struct {
	ID                   string     `json:"id"`
	ColumnID             string     `json:"columnId"`
	Title                string     `json:"title"`
	Description          string     `json:"description,omitempty"`
	Priority             string     `json:"priority"`
	ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate,omitempty"`
	AssignedTo           []string   `json:"assignedTo"`
	Order                int        `json:"order"`
	CreatedBy            string     `json:"createdBy"`
	CreatedAt            time.Time  `json:"createdAt"`
}

func toCardJSON(card *entity.Card) cardJSON {
	assigned := card.AssignedTo
	if assigned == nil {
		assigned = []string{}
	}
	return cardJSON{
		ID:                   card.ID,
		ColumnID:             card.ColumnID,
		Title:                card.Title,
		Description:          card.Description,
		Priority:             string(card.Priority),
		ExpectedDeliveryDate: card.ExpectedDeliveryDate,
		AssignedTo:           assigned,
		Order:                card.Order,
		CreatedBy:            card.CreatedBy,
		CreatedAt:            card.CreatedAt,
	}
}

type memberJSON struct {
	ID        string    `json:"id"`
	ProjectID string    `json:"projectId"`
	UserID    string    `json:"userId"`
	Role      string    `json:"role"`
	User      *userJSON `json:"user,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toMemberJSON(m *application.MemberWithUser) memberJSON {
	out := memberJSON{
		ID:        m.Member.ID,
		ProjectID: m.Member.ProjectID,
		UserID:    m.Member.UserID,
		Role:      string(m.Member.Role),
		CreatedAt: m.Member.CreatedAt,
	}
	if m.User != nil {
		u := toUserJSON(m.User)
		out.User = &u
	}
	return out
}
