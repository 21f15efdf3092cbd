package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/ErlanBelekov/personen-api/internal/domain"
	"github.com/ErlanBelekov/personen-api/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// fakeAuthUsecase implements the unexported authUsecaser interface via method matching.
type fakeAuthUsecase struct {
	register func(ctx context.Context, username, password string) (string, error)
	login    func(ctx context.Context, username, password string) (string, error)
}

func (f *fakeAuthUsecase) Register(ctx context.Context, username, password string) (string, error) {
	return f.register(ctx, username, password)
}

func (f *fakeAuthUsecase) Login(ctx context.Context, username, password string) (string, error) {
	return f.login(ctx, username, password)
}

func newAuthEngine(uc *fakeAuthUsecase, expose bool) *gin.Engine {
	h := handler.NewAuthHandler(uc, testLogger, expose)

	r := gin.New()
	r.POST("/user/register", h.Register)
	r.POST("/user/login", h.Login)
	return r
}

func postJSON(r http.Handler, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body %q: %v", w.Body.String(), err)
	}
	return body
}

const creds = `{"username":"anna","password":"s3cret"}`

// ---- Register ----

func TestRegister_Success_Returns200WithToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, username, _ string) (string, error) {
			return "jwt-for-" + username, nil
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/register", creds)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeBody(t, w)["token"]; got != "jwt-for-anna" {
		t.Errorf("token = %v, want jwt-for-anna", got)
	}
}

func TestRegister_UsernameTaken_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrUsernameTaken
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/register", creds)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
	if decodeBody(t, w)["message"] == nil {
		t.Error("missing message field")
	}
}

func TestRegister_MissingPassword_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := postJSON(newAuthEngine(uc, false), "/user/register", `{"username":"anna"}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_InvalidJSON_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{}
	w := postJSON(newAuthEngine(uc, false), "/user/register", `{bad json}`)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_MultibytePasswordOver72Bytes_Returns400(t *testing.T) {
	called := false
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) (string, error) {
			called = true
			return "jwt", nil
		},
	}
	// 30 runes, 90 bytes.
	body := `{"username":"u1","password":"` + strings.Repeat("€", 30) + `"}`
	w := postJSON(newAuthEngine(uc, false), "/user/register", body)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if called {
		t.Error("usecase called for an over-long password")
	}
}

func TestRegister_PasswordTooLongFromUsecase_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrPasswordTooLong
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/register", creds)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestRegister_StorageError_Returns500AndHidesDetail(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("pq: connection refused")
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/register", creds)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "connection refused") {
		t.Errorf("body leaks storage error: %s", w.Body.String())
	}
}

func TestRegister_StorageError_ExposedLocally(t *testing.T) {
	uc := &fakeAuthUsecase{
		register: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("pq: connection refused")
		},
	}
	w := postJSON(newAuthEngine(uc, true), "/user/register", creds)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if got := decodeBody(t, w)["error"]; got != "pq: connection refused" {
		t.Errorf("error = %v, want underlying text", got)
	}
}

// ---- Login ----

func TestLogin_Success_Returns200WithToken(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) { return "jwt", nil },
	}
	w := postJSON(newAuthEngine(uc, false), "/user/login", creds)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if got := decodeBody(t, w)["token"]; got != "jwt" {
		t.Errorf("token = %v, want jwt", got)
	}
}

func TestLogin_BadCredentials_Returns409(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", domain.ErrInvalidCredentials
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/login", creds)

	if w.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", w.Code)
	}
}

func TestLogin_PasswordOver72Bytes_Returns400(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			t.Fatal("usecase must not be called")
			return "", nil
		},
	}
	body := `{"username":"u1","password":"` + strings.Repeat("ä", 40) + `"}`
	w := postJSON(newAuthEngine(uc, false), "/user/login", body)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestLogin_StorageError_Returns500(t *testing.T) {
	uc := &fakeAuthUsecase{
		login: func(_ context.Context, _, _ string) (string, error) {
			return "", errors.New("db down")
		},
	}
	w := postJSON(newAuthEngine(uc, false), "/user/login", creds)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
}
