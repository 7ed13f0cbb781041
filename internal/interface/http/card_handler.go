package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/internal/domain/entity"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type CardHandler struct {
	Cards  *application.CardService
	Logger *logrus.Logger
}

func NewCardHandler(cards *application.CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{Cards: cards, Logger: logger}
}

// Create POST /api/columns/:columnId/cards
func (h *CardHandler) Create(c *gin.Context) {
	var req struct {
		Title                string     `json:"title" binding:"required,min=1,max=300"`
		Description          string     `json:"description"`
		Priority             string     `json:"priority" binding:"omitempty,oneof=LOW MEDIUM HIGH URGENT"`
		ExpectedDeliveryDate *time.Time `json:"expectedDeliveryDate"`
		AssignedTo           []string   `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	card, err := h.Cards.Create(c, actorFrom(c), c.Param("columnId"), application.CreateCardInput{
		Title:                req.Title,
		Description:          req.Description,
		Priority:             entity.CardPriority(req.Priority),
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		AssignedTo:           req.AssignedTo,
	})
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toCardJSON(card), "card created", nil)
}

// Update PUT /api/cards/:cardId
//
// Nullable fields are tri-state: absent leaves the field alone, JSON null
// clears it, a value sets it. Raw messages keep the distinction that plain
// struct binding would lose.
func (h *CardHandler) Update(c *gin.Context) {
	var req struct {
		Title                string          `json:"title" binding:"omitempty,min=1,max=300"`
		Description          json.RawMessage `json:"description"`
		Priority             json.RawMessage `json:"priority"`
		ExpectedDeliveryDate json.RawMessage `json:"expectedDeliveryDate"`
		AssignedTo           json.RawMessage `json:"assignedTo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}

	in := application.UpdateCardInput{Title: req.Title}
	var err error
	if in.Description, err = patchOf[string](req.Description); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid description", nil)
		return
	}
	if in.Priority, err = patchOf[entity.CardPriority](req.Priority); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid priority", nil)
		return
	}
	if in.ExpectedDeliveryDate, err = patchOf[time.Time](req.ExpectedDeliveryDate); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid expectedDeliveryDate", nil)
		return
	}
	if in.AssignedTo, err = patchOf[[]string](req.AssignedTo); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid assignedTo", nil)
		return
	}

	card, err := h.Cards.Update(c, actorFrom(c), c.Param("cardId"), in)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCardJSON(card), "card updated", nil)
}

// patchOf maps a raw JSON field onto a tri-state patch.
func patchOf[T any](raw json.RawMessage) (application.Patch[T], error) {
	if raw == nil {
		return application.Unchanged[T](), nil
	}
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return application.Clear[T](), nil
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return application.Unchanged[T](), err
	}
	return application.Set(v), nil
}

// Move PUT /api/cards/:cardId/move {columnId, order}
func (h *CardHandler) Move(c *gin.Context) {
	var req struct {
		ColumnID string `json:"columnId" binding:"required"`
		Order    int    `json:"order" binding:"gte=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	card, err := h.Cards.Move(c, actorFrom(c), c.Param("cardId"), req.ColumnID, req.Order)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toCardJSON(card), "card moved", nil)
}

// Reorder PUT /api/cards/reorder {cards:[{id,order}]}
func (h *CardHandler) Reorder(c *gin.Context) {
	var req struct {
		Cards []struct {
			ID    string `json:"id" binding:"required"`
			Order int    `json:"order" binding:"gte=0"`
		} `json:"cards" binding:"required,min=1,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	items := make([]application.ReorderItem, 0, len(req.Cards))
	for _, it := range req.Cards {
		items = append(items, application.ReorderItem{ID: it.ID, Order: it.Order})
	}
	if err := h.Cards.Reorder(c, actorFrom(c), items); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"reordered": len(items)}, "cards reordered", nil)
}

// Delete DELETE /api/cards/:cardId
func (h *CardHandler) Delete(c *gin.Context) {
	if err := h.Cards.Delete(c, actorFrom(c), c.Param("cardId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "card deleted", nil)
}
