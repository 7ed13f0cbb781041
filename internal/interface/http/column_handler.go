package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type ColumnHandler struct {
	Columns *application.ColumnService
	Logger  *logrus.Logger
}

func NewColumnHandler(columns *application.ColumnService, logger *logrus.Logger) *ColumnHandler {
	return &ColumnHandler{Columns: columns, Logger: logger}
}

// Create POST /api/boards/:boardId/columns {name, color?}
func (h *ColumnHandler) Create(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,min=1,max=100"`
		Color string `json:"color" binding:"omitempty,hexcolor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	col, err := h.Columns.Create(c, actorFrom(c), c.Param("boardId"), req.Name, req.Color)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toColumnJSON(col), "column created", nil)
}

// Update PUT /api/columns/:columnId {name, color?}
func (h *ColumnHandler) Update(c *gin.Context) {
	var req struct {
		Name  string `json:"name" binding:"required,min=1,max=100"`
		Color string `json:"color" binding:"omitempty,hexcolor"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	col, err := h.Columns.Update(c, actorFrom(c), c.Param("columnId"), req.Name, req.Color)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toColumnJSON(col), "column updated", nil)
}

// Reorder PUT /api/columns/reorder {columns:[{id,order}]}
func (h *ColumnHandler) Reorder(c *gin.Context) {
	var req struct {
		Columns []struct {
			ID    string `json:"id" binding:"required"`
			Order int    `json:"order" binding:"gte=0"`
		} `json:"columns" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	items := make([]application.ReorderItem, 0, len(req.Columns))
	for _, it := range req.Columns {
		items = append(items, application.ReorderItem{ID: it.ID, Order: it.Order})
	}
	if err := h.Columns.Reorder(c, actorFrom(c), items); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reordered": len(items)}, "columns reordered", nil)
}

// Delete DELETE /api/columns/:columnId
func (h *ColumnHandler) Delete(c *gin.Context) {
	if err := h.Columns.Delete(c, actorFrom(c), c.Param("columnId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "column deleted", nil)
}
