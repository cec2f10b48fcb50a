package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Popolzen/linkcut/internal/config"
	"github.com/Popolzen/linkcut/internal/middleware/auth"
	"github.com/Popolzen/linkcut/internal/repository/memory"
	"github.com/Popolzen/linkcut/internal/service/users"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupUsersRouter собирает роутер учетных записей с полным циклом куки:
// Identity читает то, что выдали Register/Login.
func setupUsersRouter() (*gin.Engine, *config.Config) {
	gin.SetMode(gin.TestMode)

	repo := memory.NewRepository()
	service := users.NewService(repo)
	cfg := &config.Config{SecretKey: "test_secret"}

	router := gin.New()
	router.Use(auth.Identity(cfg.SecretKey))
	router.POST("/api/user/register", RegisterUserHandler(service, cfg))
	router.POST("/api/user/login", LoginHandler(service, cfg))
	router.POST("/api/user/logout", LogoutHandler())
	router.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": auth.UserID(c)})
	})

	return router, cfg
}

func postCreds(router *gin.Engine, path, login, password string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(gin.H{"login": login, "password": password})
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func authCookie(t *testing.T, w *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range w.Result().Cookies() {
		if c.Name == "user_id" {
			return c
		}
	}
	return nil
}

func TestRegisterUserHandler(t *testing.T) {
	router, _ := setupUsersRouter()

	w := postCreds(router, "/api/user/register", "vasya", "secret")
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"login":"vasya"`)

	cookie := authCookie(t, w)
	require.NotNil(t, cookie, "регистрация должна выдать куку")
	assert.NotEmpty(t, cookie.Value)
}

func TestRegisterUserHandler_Duplicate(t *testing.T) {
	router, _ := setupUsersRouter()

	w := postCreds(router, "/api/user/register", "vasya", "secret")
	require.Equal(t, http.StatusCreated, w.Code)

	w = postCreds(router, "/api/user/register", "vasya", "another")
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestRegisterUserHandler_EmptyFields(t *testing.T) {
	router, _ := setupUsersRouter()

	w := postCreds(router, "/api/user/register", "", "secret")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginHandler(t *testing.T) {
	router, _ := setupUsersRouter()

	w := postCreds(router, "/api/user/register", "vasya", "secret")
	require.Equal(t, http.StatusCreated, w.Code)

	tests := []struct {
		name     string
		login    string
		password string
		wantCode int
	}{
		{"Верный пароль", "vasya", "secret", http.StatusOK},
		{"Неверный пароль", "vasya", "wrong", http.StatusUnauthorized},
		{"Неизвестный логин", "petya", "secret", http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postCreds(router, "/api/user/login", tt.login, tt.password)
			assert.Equal(t, tt.wantCode, w.Code)

			if tt.wantCode == http.StatusOK {
				assert.NotNil(t, authCookie(t, w))
			}
		})
	}
}

func TestLoginCookie_AcceptedByIdentity(t *testing.T) {
	router, _ := setupUsersRouter()

	w := postCreds(router, "/api/user/register", "vasya", "secret")
	require.Equal(t, http.StatusCreated, w.Code)
	cookie := authCookie(t, w)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(cookie)
	w2 := httptest.NewRecorder()
	router.ServeHTTP(w2, req)

	require.Equal(t, http.StatusOK, w2.Code)
	var resp struct {
		UserID string `json:"user_id"`
	}
	require.NoError(t, json.Unmarshal(w2.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.UserID)
}

func TestLogoutHandler(t *testing.T) {
	router, _ := setupUsersRouter()

	req := httptest.NewRequest(http.MethodPost, "/api/user/logout", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	cookie := authCookie(t, w)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Negative(t, cookie.MaxAge)
}
