package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/personen-api/internal/reqctx"
	"github.com/ErlanBelekov/personen-api/internal/token"
	"github.com/ErlanBelekov/personen-api/internal/transport/http/middleware"
	"github.com/gin-gonic/gin"
)

const testKey = "middleware-test-secret-32-chars!!"

func init() {
	gin.SetMode(gin.TestMode)
}

// newEngine protects GET /protected with Auth. The handler echoes the
// username from both contexts and counts how often it ran.
func newEngine(calls *int) *gin.Engine {
	r := gin.New()
	r.GET("/protected", middleware.Auth(token.New([]byte(testKey), time.Hour)), func(c *gin.Context) {
		*calls++
		c.String(http.StatusOK, "%s|%s", c.GetString(middleware.UsernameKey), reqctx.Username(c.Request.Context()))
	})
	return r
}

func do(t *testing.T, authHeader string) (*httptest.ResponseRecorder, int) {
	t.Helper()
	var calls int
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	newEngine(&calls).ServeHTTP(w, req)
	return w, calls
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	msg, _ := body["message"].(string)
	return msg
}

func TestAuth_MissingHeader_Returns401(t *testing.T) {
	w, calls := do(t, "")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
	if calls != 0 {
		t.Errorf("handler ran %d times, want 0", calls)
	}
	if message(t, w) == "" {
		t.Error("missing message field")
	}
}

func TestAuth_NonBearerScheme_Returns401(t *testing.T) {
	w, _ := do(t, "Basic dXNlcjpwYXNz")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_EmptyBearer_Returns401(t *testing.T) {
	w, _ := do(t, "Bearer   ")

	if w.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", w.Code)
	}
}

func TestAuth_InvalidToken_Returns403(t *testing.T) {
	w, calls := do(t, "Bearer not.a.jwt")

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
	if calls != 0 {
		t.Errorf("handler ran %d times, want 0", calls)
	}
}

func TestAuth_ExpiredToken_Returns403(t *testing.T) {
	issued := time.Now().Add(-2 * time.Hour)
	tok, err := token.New([]byte(testKey), time.Hour).WithClock(func() time.Time { return issued }).Issue("anna")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, _ := do(t, "Bearer "+tok)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestAuth_WrongSigningKey_Returns403(t *testing.T) {
	tok, err := token.New([]byte("different-key-that-is-32-chars!!"), time.Hour).Issue("anna")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, _ := do(t, "Bearer "+tok)

	if w.Code != http.StatusForbidden {
		t.Errorf("status = %d, want 403", w.Code)
	}
}

func TestAuth_ValidToken_PassesAndSetsUsername(t *testing.T) {
	tok, err := token.New([]byte(testKey), time.Hour).Issue("anna")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w, calls := do(t, "Bearer "+tok)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", w.Code)
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if got := w.Body.String(); got != "anna|anna" {
		t.Errorf("body = %q, want %q", got, "anna|anna")
	}
}
