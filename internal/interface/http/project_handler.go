package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type ProjectHandler struct {
	Projects *application.ProjectService
	Logger   *logrus.Logger
}

func NewProjectHandler(projects *application.ProjectService, logger *logrus.Logger) *ProjectHandler {
	return &ProjectHandler{Projects: projects, Logger: logger}
}

// Create POST /api/projects {name, projectManagerEmail?}
func (h *ProjectHandler) Create(c *gin.Context) {
	var req struct {
		Name                string `json:"name" binding:"required,min=1,max=200"`
		ProjectManagerEmail string `json:"projectManagerEmail" binding:"omitempty,email"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Projects.Create(c, actorFrom(c), req.Name, req.ProjectManagerEmail)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toProjectJSON(p, ""), "project created", nil)
}

// List GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	items, err := h.Projects.ListForActor(c, actorFrom(c))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]projectJSON, 0, len(items))
	for i := range items {
		out = append(out, toProjectJSON(&items[i].Project, items[i].Role))
	}
	response.Success(c, http.StatusOK, out, "projects", gin.H{"count": len(out)})
}

// Get GET /api/projects/:projectId
func (h *ProjectHandler) Get(c *gin.Context) {
	p, err := h.Projects.Get(c, actorFrom(c), c.Param("projectId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProjectJSON(p, ""), "project", nil)
}

// Update PUT /api/projects/:projectId {name}
func (h *ProjectHandler) Update(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	p, err := h.Projects.Update(c, actorFrom(c), c.Param("projectId"), req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toProjectJSON(p, ""), "project updated", nil)
}

// Delete DELETE /api/projects/:projectId
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.Projects.Delete(c, actorFrom(c), c.Param("projectId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "project deleted", nil)
}
