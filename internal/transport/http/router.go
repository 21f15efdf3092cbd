package httptransport

import (
	"log/slog"
	"net/http"

	"github.com/ErlanBelekov/personen-api/internal/transport/http/handler"
	"github.com/ErlanBelekov/personen-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-chi/cors"

	sloggin "github.com/samber/slog-gin"
)

func NewRouter(logger *slog.Logger, authHandler *handler.AuthHandler, personHandler *handler.PersonHandler, verifier middleware.TokenVerifier) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Security())
	r.Use(sloggin.New(logger))
	r.Use(middleware.Metrics())

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Not found"})
	})

	users := r.Group("/user")
	users.POST("/register", authHandler.Register)
	users.POST("/login", authHandler.Login)

	persons := r.Group("/person", middleware.Auth(verifier))
	persons.POST("", personHandler.Create)
	persons.GET("", personHandler.List)
	persons.GET("/:id", personHandler.GetByID)
	persons.PUT("/:id", personHandler.Update)
	persons.DELETE("/:id", personHandler.Delete)

	return r
}

// WithCORS wraps the API handler so browsers on allowedOrigins may call it
// with a bearer token.
func WithCORS(next http.Handler, allowedOrigins []string) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	})(next)
}
