package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/flowboard/flowboard-api/internal/application"
	"github.com/flowboard/flowboard-api/pkg/response"
	"github.com/flowboard/flowboard-api/pkg/validation"
)

type BoardHandler struct {
	Boards *application.BoardService
	Logger *logrus.Logger
}

func NewBoardHandler(boards *application.BoardService, logger *logrus.Logger) *BoardHandler {
	return &BoardHandler{Boards: boards, Logger: logger}
}

// boardViewJSON is the full board: columns in order, each with its cards.
type boardViewJSON struct {
	boardJSON
	Columns []columnViewJSON `json:"columns"`
}

type columnViewJSON struct {
	columnJSON
	Cards []cardJSON `json:"cards"`
}

// Create POST /api/projects/:projectId/boards {name}
func (h *BoardHandler) Create(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Boards.Create(c, actorFrom(c), c.Param("projectId"), req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, toBoardJSON(b), "board created", nil)
}

// List GET /api/projects/:projectId/boards
func (h *BoardHandler) List(c *gin.Context) {
	boards, err := h.Boards.ListByProject(c, actorFrom(c), c.Param("projectId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := make([]boardJSON, 0, len(boards))
	for i := range boards {
		out = append(out, toBoardJSON(&boards[i]))
	}
	response.Success(c, http.StatusOK, out, "boards", gin.H{"count": len(out)})
}

// Get GET /api/boards/:boardId
func (h *BoardHandler) Get(c *gin.Context) {
	view, err := h.Boards.Get(c, actorFrom(c), c.Param("boardId"))
	if err != nil {
		response.FromError(c, err)
		return
	}
	out := boardViewJSON{boardJSON: toBoardJSON(&view.Board), Columns: make([]columnViewJSON, 0, len(view.Columns))}
	for i := range view.Columns {
		col := columnViewJSON{
			columnJSON: toColumnJSON(&view.Columns[i].Column),
			Cards:      make([]cardJSON, 0, len(view.Columns[i].Cards)),
		}
		for j := range view.Columns[i].Cards {
			col.Cards = append(col.Cards, toCardJSON(&view.Columns[i].Cards[j]))
		}
		out.Columns = append(out.Columns, col)
	}
	response.Success(c, http.StatusOK, out, "board", nil)
}

// Update PUT /api/boards/:boardId {name}
func (h *BoardHandler) Update(c *gin.Context) {
	var req struct {
		Name string `json:"name" binding:"required,min=1,max=200"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	b, err := h.Boards.Update(c, actorFrom(c), c.Param("boardId"), req.Name)
	if err != nil {
		response.FromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, toBoardJSON(b), "board updated", nil)
}

// Delete DELETE /api/boards/:boardId
func (h *BoardHandler) Delete(c *gin.Context) {
	if err := h.Boards.Delete(c, actorFrom(c), c.Param("boardId")); err != nil {
		response.FromError(c, err)
		return
	}
	response.Success[any](c, http.StatusOK, gin.H{"deleted": true}, "board deleted", nil)
}
