package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/flowboard/flowboard-api/pkg/apperror"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Code      string      `json:"code,omitempty"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope with the given status.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	})
}

// Error writes an error envelope with the given status.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) {
	ErrorCode[T](ctx, status, "", message, err)
}

// ErrorCode writes an error envelope carrying a machine-readable code.
func ErrorCode[T any](ctx *gin.Context, status int, code, message string, err interface{}) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.JSON(status, APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Code:      code,
		Error:     err,
	})
}

// FromError maps a core error onto the wire: typed apperror.Error values
// keep their status and code; anything else is a 500 with a generic body.
func FromError(ctx *gin.Context, err error) {
	if appErr, ok := apperror.As(err); ok {
		ErrorCode[any](ctx, appErr.Status, appErr.Code, appErr.Message, nil)
		return
	}
	ErrorCode[any](ctx, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
}
