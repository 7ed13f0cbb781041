package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/container"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// BoardModule wires board-scoped routes, including column creation under a
// board. All routes are protected.
type BoardModule struct {
	Boards  *handlers.BoardHandler
	Columns *handlers.ColumnHandler
	JWT     *helpers.JWTManager
}

func NewBoardModule(b *handlers.BoardHandler, c *handlers.ColumnHandler, jwt *helpers.JWTManager) *BoardModule {
	return &BoardModule{Boards: b, Columns: c, JWT: jwt}
}

func (m *BoardModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/boards")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.GET("/:boardId", m.Boards.Get)
		auth.PUT("/:boardId", m.Boards.Update)
		auth.DELETE("/:boardId", m.Boards.Delete)

		auth.POST("/:boardId/columns", m.Columns.Create)
	}
}
