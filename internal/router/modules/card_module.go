package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/container"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// CardModule wires card-scoped routes: update, move, bulk reorder, delete.
// All routes are protected.
type CardModule struct {
	Cards *handlers.CardHandler
	JWT   *helpers.JWTManager
}

func NewCardModule(c *handlers.CardHandler, jwt *helpers.JWTManager) *CardModule {
	return &CardModule{Cards: c, JWT: jwt}
}

func (m *CardModule) Register(rg *gin.RouterGroup) {
	auth := rg.Group("/cards")
	auth.Use(middleware.Auth(m.JWT))
	auth.Use(middleware.RateLimit(container.GetRedis(), 240, time.Minute, middleware.KeyByUserID(), nil))
	{
		auth.PUT("/reorder", m.Cards.Reorder)
		auth.PUT("/:cardId", m.Cards.Update)
		auth.PUT("/:cardId/move", m.Cards.Move)
		auth.DELETE("/:cardId", m.Cards.Delete)
	}
}
