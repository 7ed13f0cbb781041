package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/container"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// ColumnModule wires column-scoped routes, including card creation under a
// column and the bulk reorder endpoint. All routes are protected.
type ColumnModule struct {
	Columns *handlers.ColumnHandler
	Cards   *handlers.CardHandler
	JWT     *helpers.JWTManager
}

func NewColumnModule(c *handlers.ColumnHandler, cards *handlers.CardHandler, jwt *helpers.JWTManager) *ColumnModule {
	return &ColumnModule{Columns: c, Cards: cards, JWT: jwt}
}

func (m *ColumnModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/columns")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/reorder", m.Columns.Reorder)
		auth.PUT("/:columnId", m.Columns.Update)
		auth.DELETE("/:columnId", m.Columns.Delete)

		auth.POST("/:columnId/cards", m.Cards.Create)
	}
}
