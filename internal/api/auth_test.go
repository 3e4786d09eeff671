package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/landylawliet99-blip/api-blog/internal/model"
	"github.com/landylawliet99-blip/api-blog/internal/store"
)

const testSecret = "test-secret"

func newAuthRouter(t *testing.T) (*gin.Engine, *Handlers, *store.SQLiteStore) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.NewSQLite(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	h := NewHandlers(st, nil, testSecret, time.Hour, "https://example.com")
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.GET("/api/auth/validate", h.RequireAuth(), h.ValidateToken)
	r.GET("/api/admin/ping", h.RequireAuth(), h.RequireAdmin(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
	return r, h, st
}

func seedUser(t *testing.T, st *store.SQLiteStore, email, password, role string) {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, st.CreateUser(&model.User{
		Email:        email,
		Username:     "tester",
		PasswordHash: string(hash),
		Role:         role,
	}))
}

func doJSON(r *gin.Engine, method, path, body, token string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	r.ServeHTTP(w, req)
	return w
}

func loginToken(t *testing.T, r *gin.Engine, email, password string) string {
	t.Helper()
	w := doJSON(r, "POST", "/api/auth/login", `{"email":"`+email+`","password":"`+password+`"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestLoginAndValidate(t *testing.T) {
	r, _, st := newAuthRouter(t)
	seedUser(t, st, "admin@example.com", "hunter22!", "admin")

	token := loginToken(t, r, "admin@example.com", "hunter22!")

	w := doJSON(r, "GET", "/api/auth/validate", "", token)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"valid":true`)
	require.Contains(t, w.Body.String(), "admin@example.com")
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	r, _, st := newAuthRouter(t)
	seedUser(t, st, "admin@example.com", "hunter22!", "admin")

	// Wrong password and unknown account get the same generic answer.
	w := doJSON(r, "POST", "/api/auth/login", `{"email":"admin@example.com","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid credentials")

	w = doJSON(r, "POST", "/api/auth/login", `{"email":"ghost@example.com","password":"hunter22!"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
	require.Contains(t, w.Body.String(), "invalid credentials")
}

func TestRequireAuthRejectsBadTokens(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	w := doJSON(r, "GET", "/api/auth/validate", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = doJSON(r, "GET", "/api/auth/validate", "", "garbage.token.here")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Token signed with the wrong secret.
	wrong := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1", Email: "x@example.com", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	})
	signed, err := wrong.SignedString([]byte("other-secret"))
	require.NoError(t, err)

	w = doJSON(r, "GET", "/api/auth/validate", "", signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAuthRejectsExpiredToken(t *testing.T) {
	r, _, _ := newAuthRouter(t)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "u1", Email: "x@example.com", Role: "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	})
	signed, err := expired.SignedString([]byte(testSecret))
	require.NoError(t, err)

	w := doJSON(r, "GET", "/api/auth/validate", "", signed)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAdmin(t *testing.T) {
	r, _, st := newAuthRouter(t)
	seedUser(t, st, "admin@example.com", "hunter22!", "admin")
	seedUser(t, st, "editor@example.com", "hunter22!", "editor")

	adminToken := loginToken(t, r, "admin@example.com", "hunter22!")
	w := doJSON(r, "GET", "/api/admin/ping", "", adminToken)
	require.Equal(t, http.StatusOK, w.Code)

	editorToken := loginToken(t, r, "editor@example.com", "hunter22!")
	w = doJSON(r, "GET", "/api/admin/ping", "", editorToken)
	require.Equal(t, http.StatusForbidden, w.Code)
}
