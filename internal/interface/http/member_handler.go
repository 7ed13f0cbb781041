package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type MemberHandler struct {
	Members *application.MemberService
	Logger  *logrus.Logger
}

func NewMemberHandler(members *application.MemberService, logger *logrus.Logger) *MemberHandler {
	return &MemberHandler{Members: members, Logger: logger}
}

// Add POST /api/projects/:projectId/members {email, role}
func (h *MemberHandler) Add(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
		Role  string `json:"role" binding:"required,oneof=ADMIN MEMBER"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	m, err := h.Members.Add(c, actorFrom(c), c.Param("projectId"), req.Email, entity.ProjectRole(req.Role))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toMemberJSON(m), "member added", nil)
}

// List GET /api/projects/:projectId/members
func (h *MemberHandler) List(c *gin.Context) {
	members, err := h.Members.List(c, actorFrom(c), c.Param("projectId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]memberJSON, 0, len(members))
	for i := range members {
		out = append(out, toMemberJSON(&members[i]))
	}
	response.Success(c, http.StatusOK, out, "members", gin.H{"count": len(out)})
}

// Remove DELETE /api/projects/:projectId/members/:userId
func (h *MemberHandler) Remove(c *gin.Context) {
	if err := h.Members.Remove(c, actorFrom(c), c.Param("projectId"), c.Param("userId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"removed": true}, "member removed", nil)
}
