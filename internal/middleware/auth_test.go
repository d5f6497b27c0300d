package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aarogyacheck/clearance-api/pkg/auth"
)

func newTestRouter(t *testing.T) (*gin.Engine, auth.JWTService, *AuthMiddleware) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService("test-secret", time.Hour)
	mw := NewAuthMiddleware(jwtSvc, auth.NewMemoryRevoker())

	r := gin.New()
	doctor := r.Group("/doctor", mw.RequireRole(auth.RoleDoctor))
	doctor.GET("/whoami", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"actor_id": c.GetString(CtxActorID)})
	})
	doctor.POST("/logout", mw.Logout)
	return r, jwtSvc, mw
}

func doRequest(r *gin.Engine, method, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireRoleAcceptsMatchingRole(t *testing.T) {
	r, jwtSvc, _ := newTestRouter(t)

	token, err := jwtSvc.Generate(auth.RoleDoctor, "doctor1")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/doctor/whoami", token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "doctor1")
}

func TestRequireRoleRejectsMissingToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	w := doRequest(r, http.MethodGet, "/doctor/whoami", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsWrongRole(t *testing.T) {
	r, jwtSvc, _ := newTestRouter(t)

	token, err := jwtSvc.Generate(auth.RoleMigrant, "m1")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/doctor/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireRoleRejectsTamperedToken(t *testing.T) {
	r, _, _ := newTestRouter(t)

	other := auth.NewJWTService("other-secret", time.Hour)
	token, err := other.Generate(auth.RoleDoctor, "doctor1")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/doctor/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutRevokesSession(t *testing.T) {
	r, jwtSvc, _ := newTestRouter(t)

	token, err := jwtSvc.Generate(auth.RoleDoctor, "doctor1")
	require.NoError(t, err)

	w := doRequest(r, http.MethodGet, "/doctor/whoami", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodPost, "/doctor/logout", token)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/doctor/whoami", token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Other sessions of the same actor stay valid.
	fresh, err := jwtSvc.Generate(auth.RoleDoctor, "doctor1")
	require.NoError(t, err)
	w = doRequest(r, http.MethodGet, "/doctor/whoami", fresh)
	assert.Equal(t, http.StatusOK, w.Code)
}
