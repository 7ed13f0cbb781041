package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type AuthHandler struct {
	Auth   *application.AuthService
	Google *application.GoogleService
	Logger *logrus.Logger
}

func NewAuthHandler(auth *application.AuthService, google *application.GoogleService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{Auth: auth, Google: google, Logger: logger}
}

type authPayload struct {
	User   userJSON  `json:"user"`
	Tokens tokenJSON `json:"tokens"`
}

// Register POST /api/auth/register {name,email,password}
func (h *AuthHandler) Register(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required,min=2"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Auth.Register(c, req.Name, req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, authPayload{User: toUserJSON(u), Tokens: toTokenJSON(pair)}, "registered", nil)
}

// Login POST /api/auth/login {email,password}
func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Auth.Login(c, req.Email, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{User: toUserJSON(u), Tokens: toTokenJSON(pair)}, "logged in", nil)
}

// Refresh POST /api/auth/refresh {refreshToken}
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	_, pair, err := h.Auth.Refresh(c, req.RefreshToken)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toTokenJSON(pair), "token refreshed", nil)
}

// GoogleURL GET /api/auth/google
func (h *AuthHandler) GoogleURL(c *gin.Context) {
	url, err := h.Google.AuthURL(c)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"url": url}, "google auth url", nil)
}

// GoogleCallback GET /api/auth/google/callback?code=&state=
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	code := c.Query("code")
	state := c.Query("state")
	if code == "" || state == "" {
		response.Error[any](c, http.StatusBadRequest, "missing code or state", nil)
		return
	}
	u, pair, err := h.Google.HandleCallback(c, code, state)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{User: toUserJSON(u), Tokens: toTokenJSON(pair)}, "logged in with google", nil)
}

// AcceptInvitation POST /api/auth/invitation/accept {token,name?,password}
func (h *AuthHandler) AcceptInvitation(c *gin.Context) {
	var req struct {
		Token    string `json:"token" binding:"required"`
		Name     string `json:"name"`
		Password string `json:"password" binding:"required,pwd"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, pair, err := h.Auth.AcceptInvitation(c, req.Token, req.Name, req.Password)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, authPayload{User: toUserJSON(u), Tokens: toTokenJSON(pair)}, "invitation accepted", nil)
}

// InvitationDetails GET /api/auth/invitation?email= (superadmin)
func (h *AuthHandler) InvitationDetails(c *gin.Context) {
	email := c.Query("email")
	if email == "" {
		response.Error[any](c, http.StatusBadRequest, "email query parameter required", nil)
		return
	}
	u, err := h.Auth.InvitationDetails(c, actorFrom(c), email)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"email":             u.Email,
		"name":              u.Name,
		"invitationExpires": u.InvitationExpires,
	}, "pending invitation", nil)
}
