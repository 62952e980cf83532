package response

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/factory-erp/pkg/apperr"
)

type APIResponse[T any] struct {
	Status    int         `json:"status"`
	Timestamp time.Time   `json:"timestamp"`
	RequestID string      `json:"request_id"`
	Success   bool        `json:"success"`
	Message   string      `json:"message"`
	Data      T           `json:"data,omitempty"`
	Meta      interface{} `json:"meta,omitempty"`
	Error     interface{} `json:"error,omitempty"`
}

// Success writes a success envelope and returns it.
func Success[T any](ctx *gin.Context, status int, data T, message string, meta interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusOK
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   true,
		Message:   message,
		Data:      data,
		Meta:      meta,
	}
	ctx.JSON(status, resp)
	return resp
}

// Error writes an error envelope, aborts the handler chain and returns the envelope.
func Error[T any](ctx *gin.Context, status int, message string, err interface{}) APIResponse[T] {
	if status == 0 {
		status = http.StatusBadRequest
	}
	resp := APIResponse[T]{
		Status:    status,
		Timestamp: time.Now(),
		RequestID: ctx.GetString("request_id"),
		Success:   false,
		Message:   message,
		Error:     err,
	}
	ctx.AbortWithStatusJSON(status, resp)
	return resp
}

// Fail converts err into an error envelope using its apperr kind.
// Internal errors are also attached to the gin context for logging.
func Fail(ctx *gin.Context, err error) {
	e := apperr.As(err)
	body := map[string]any{}
	if e.Code != "" {
		body["code"] = e.Code
	}
	for k, v := range e.Details {
		body[k] = v
	}
	var payload interface{}
	if len(body) > 0 {
		payload = body
	}
	msg := e.Message
	if e.Kind == apperr.KindInternal {
		// The cause stays out of the body; error logging middleware reads it from ctx.Errors.
		_ = ctx.Error(e)
		msg = "internal server error"
	}
	Error[any](ctx, e.Status(), msg, payload)
}
