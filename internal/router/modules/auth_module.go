package modules

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/internal/container"
	handlers "github.com/flowboard/flowboard-api/internal/interface/http"
	"github.com/flowboard/flowboard-api/internal/interface/middleware"
	"github.com/flowboard/flowboard-api/pkg/helpers"
)

// AuthModule wires registration, login, token refresh, Google OAuth, and
// the invitation flow.
// Public: POST /api/auth/register, /api/auth/login, /api/auth/refresh,
//         GET /api/auth/google, GET /api/auth/google/callback,
//         POST /api/auth/invitation/accept
// Protected: GET /api/auth/invitation (superadmin check in the service)
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	registerLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	loginLimiter := middleware.RateLimit(container.GetRedis(), 10, time.Minute, middleware.KeyByIP(), nil)
	refreshLimiter := middleware.RateLimit(container.GetRedis(), 60, time.Minute, middleware.KeyByIP(), nil)
	acceptLimiter := middleware.RateLimit(container.GetRedis(), 20, time.Minute, middleware.KeyByIPAndPath(), nil)

	auth := rg.Group("/auth")
	auth.POST("/register", registerLimiter, m.Handler.Register)
	auth.POST("/login", loginLimiter, m.Handler.Login)
	auth.POST("/refresh", refreshLimiter, m.Handler.Refresh)
	auth.GET("/google", m.Handler.GoogleURL)
	auth.GET("/google/callback", m.Handler.GoogleCallback)
	auth.POST("/invitation/accept", acceptLimiter, m.Handler.AcceptInvitation)

	protected := rg.Group("/auth")
	protected.Use(middleware.Auth(m.JWT))
	protected.GET("/invitation", m.Handler.InvitationDetails)
}
