package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

// maxAvatarSize bounds avatar uploads (5 MiB).
const maxAvatarSize = 5 << 20

type UserHandler struct {
	Auth      *application.AuthService
	Directory *application.UserDirectory
	Logger    *logrus.Logger
}

func NewUserHandler(auth *application.AuthService, directory *application.UserDirectory, logger *logrus.Logger) *UserHandler {
	return &UserHandler{Auth: auth, Directory: directory, Logger: logger}
}

// Profile GET /api/profile
func (h *UserHandler) Profile(c *gin.Context) {
	u, err := h.Auth.GetProfile(c, c.GetString("userID"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserJSON(u), "profile", nil)
}

// UpdateProfile PUT /api/profile {name?, avatarUrl?}
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var req struct {
		Name      string `json:"name" binding:"omitempty,min=2"`
		AvatarURL string `json:"avatarUrl" binding:"omitempty,url"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	u, err := h.Auth.UpdateProfile(c, c.GetString("userID"), application.UpdateProfileInput{
		Name:      req.Name,
		AvatarURL: req.AvatarURL,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toUserJSON(u), "profile updated", nil)
}

// UploadAvatar POST /api/profile/avatar (multipart field "avatar")
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	fh, err := c.FormFile("avatar")
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "avatar file required", nil)
		return
	}
	if fh.Size > maxAvatarSize {
		response.Error[any](c, http.StatusBadRequest, "avatar too large", nil)
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.Error[any](c, http.StatusBadRequest, "cannot read avatar file", nil)
		return
	}
	defer func() { _ = f.Close() }()

	contentType := fh.Header.Get("Content-Type")
	url, err := h.Auth.UploadAvatar(c, c.GetString("userID"), f, fh.Filename, contentType)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"avatarUrl": url}, "avatar uploaded", nil)
}

// Search GET /api/users/search?q=&size=
func (h *UserHandler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		response.Error[any](c, http.StatusBadRequest, "q query parameter required", nil)
		return
	}
	size := 10
	if s := c.Query("size"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			size = n
		}
	}
	hits, err := h.Directory.Search(c, q, size)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, hits, "search results", gin.H{"count": len(hits)})
}
