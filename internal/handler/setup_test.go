package handler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"quiz-ai/internal/handler"
	"quiz-ai/internal/middleware"
	"quiz-ai/internal/validation"
)

const (
	testToken    = "valid-token"
	testUserID   = "01HZY3K1M0ZQ4S7T8V9W0X1USR"
	testUsername = "alice"
	testQuizID   = "01HZY3K1M0ZQ4S7T8V9W0X1Y2Z"
)

type testDeps struct {
	quiz    *MockQuizService
	auth    *MockAuthService
	user    *MockUserService
	checker *MockConnectionChecker
}

func newTestApp(t *testing.T) (*fiber.App, *testDeps) {
	t.Helper()
	deps := &testDeps{
		quiz:    &MockQuizService{},
		auth:    &MockAuthService{},
		user:    &MockUserService{},
		checker: &MockConnectionChecker{Reply: "connection ok"},
	}
	v := validation.NewValidator()

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler()})
	handler.RegisterRoutes(app, handler.Handlers{
		Quiz:      handler.NewQuizHandler(deps.quiz, v),
		Auth:      handler.NewAuthHandler(deps.auth, v, handler.CookieOptions{}),
		User:      handler.NewUserHandler(deps.user, v),
		Health:    handler.NewHealthHandler(deps.checker),
		Validator: deps.auth,
	})
	return app, deps
}

func doRequest(t *testing.T, app *fiber.App, method, path string, body interface{}, authed bool) *http.Response {
	t.Helper()
	req := newJSONRequest(t, method, path, body)
	if authed {
		req.Header.Set("Authorization", "Bearer "+testToken)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func newJSONRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func decode(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}
