package handler

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/personen-api/internal/schema"
	"github.com/gin-gonic/gin"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string             `json:"message"`
	Error   string             `json:"error,omitempty"`
	Details []schema.Violation `json:"details,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorReporter logs unexpected failures and answers 500. The underlying
// error text is only sent to the client when expose is set (ENV=local).
type errorReporter struct {
	logger *slog.Logger
	expose bool
}

func (r errorReporter) internal(c *gin.Context, op string, err error, attrs ...any) {
	r.logger.ErrorContext(c.Request.Context(), op, append(attrs, "error", err)...)

	resp := errorResponse{Message: msgInternalServer}
	if r.expose {
		resp.Error = err.Error()
	}
	c.JSON(http.StatusInternalServerError, resp)
}
