package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/gin-gonic/gin"
)

// authUsecaser is the subset of AuthUsecase the handler needs.
// Defined here (point of use) so tests can inject a fake.
type authUsecaser interface {
	Register(ctx context.Context, username, password string) (string, error)
	Login(ctx context.Context, username, password string) (string, error)
}

type AuthHandler struct {
	authUsecase authUsecaser
	errs        errorReporter
}

func NewAuthHandler(authUsecase authUsecaser, logger *slog.Logger, exposeErrors bool) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		errs:        errorReporter{logger: logger.With("component", "auth_handler"), expose: exposeErrors},
	}
}

// maxPasswordBytes is bcrypt's input limit. validator's max counts runes, so
// the byte length is checked separately.
const maxPasswordBytes = 72

type credentialsRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required"`
}

type tokenResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// POST /user/register
func (h *AuthHandler) Register(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	tok, err := h.authUsecase.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUsernameTaken):
			c.JSON(http.StatusConflict, errorResponse{Message: msgUsernameTaken})
			return
		case errors.Is(err, domain.ErrPasswordTooLong):
			c.JSON(http.StatusBadRequest, errorResponse{Message: msgPasswordTooLong})
			return
		}
		h.errs.internal(c, "register", err, "username", req.Username)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Message: "User registered", Token: tok})
}

// POST /user/login
func (h *AuthHandler) Login(c *gin.Context) {
	req, ok := bindCredentials(c)
	if !ok {
		return
	}

	tok, err := h.authUsecase.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			c.JSON(http.StatusConflict, errorResponse{Message: msgInvalidCredentials})
			return
		}
		h.errs.internal(c, "login", err, "username", req.Username)
		return
	}

	c.JSON(http.StatusOK, tokenResponse{Message: "Login successful", Token: tok})
}

// bindCredentials writes the 400 response itself when the body is unusable.
func bindCredentials(c *gin.Context) (credentialsRequest, bool) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgInvalidBody, Error: err.Error()})
		return req, false
	}
	if len(req.Password) > maxPasswordBytes {
		c.JSON(http.StatusBadRequest, errorResponse{Message: msgPasswordTooLong})
		return req, false
	}
	return req, true
}
