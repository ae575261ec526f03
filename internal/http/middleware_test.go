package http

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"tasktrackr/internal/auth"
	"tasktrackr/internal/domain"
)

func newTestRouter(t *testing.T) (*gin.Engine, *auth.TokenCodec) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	codec, err := auth.NewTokenCodec("test-secret", time.Hour)
	require.NoError(t, err)

	router := gin.New()
	router.GET("/whoami", RequireAuth(codec), func(c *gin.Context) {
		identity := identityFrom(c)
		c.JSON(http.StatusOK, gin.H{"user_id": identity.UserID, "role": string(identity.Role)})
	})
	router.GET("/admin", RequireAuth(codec), RequireRoles(domain.RoleAdmin), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": "ok"})
	})
	return router, codec
}

func doRequest(router *gin.Engine, authHeader string, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestRequireAuth(t *testing.T) {
	router, codec := newTestRouter(t)

	t.Run("missing header", func(t *testing.T) {
		rec := doRequest(router, "", "/whoami")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := doRequest(router, "Token abc", "/whoami")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(router, "Bearer garbage", "/whoami")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token attaches the identity", func(t *testing.T) {
		token, err := codec.Issue("u1", domain.RoleUser, "alice")
		require.NoError(t, err)

		rec := doRequest(router, "Bearer "+token, "/whoami")
		require.Equal(t, http.StatusOK, rec.Code)
		require.JSONEq(t, `{"user_id":"u1","role":"user"}`, rec.Body.String())
	})

	t.Run("forged signature is rejected", func(t *testing.T) {
		other, err := auth.NewTokenCodec("attacker-secret", time.Hour)
		require.NoError(t, err)
		token, err := other.Issue("u1", domain.RoleAdmin, "mallory")
		require.NoError(t, err)

		rec := doRequest(router, "Bearer "+token, "/whoami")
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRoles(t *testing.T) {
	router, codec := newTestRouter(t)

	t.Run("admin passes", func(t *testing.T) {
		token, err := codec.Issue("u1", domain.RoleAdmin, "root")
		require.NoError(t, err)

		rec := doRequest(router, "Bearer "+token, "/admin")
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("plain user is forbidden", func(t *testing.T) {
		token, err := codec.Issue("u2", domain.RoleUser, "bob")
		require.NoError(t, err)

		rec := doRequest(router, "Bearer "+token, "/admin")
		require.Equal(t, http.StatusForbidden, rec.Code)
	})
}
