package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/container"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// ProjectModule wires project CRUD plus the nested member and board routes.
// All routes are protected.
type ProjectModule struct {
	Projects *handlers.ProjectHandler
	Members  *handlers.MemberHandler
	Boards   *handlers.BoardHandler
	JWT      *helpers.JWTManager
}

func NewProjectModule(p *handlers.ProjectHandler, m *handlers.MemberHandler, b *handlers.BoardHandler, jwt *helpers.JWTManager) *ProjectModule {
	return &ProjectModule{Projects: p, Members: m, Boards: b, JWT: jwt}
}

func (m *ProjectModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/projects")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.POST("", m.Projects.Create)
		auth.GET("", m.Projects.List)
		auth.GET("/:projectId", m.Projects.Get)
		auth.PUT("/:projectId", m.Projects.Update)
		auth.DELETE("/:projectId", m.Projects.Delete)

		auth.POST("/:projectId/members", m.Members.Add)
		auth.GET("/:projectId/members", m.Members.List)
		auth.DELETE("/:projectId/members/:userId", m.Members.Remove)

		auth.POST("/:projectId/boards", m.Boards.Create)
		auth.GET("/:projectId/boards", m.Boards.List)
	}
}
