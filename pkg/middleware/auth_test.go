package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/jokeoftheday/jotd/internal/tokens"
)

func protectedRouter(ver Verifier) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/admin", AuthMiddleware(ver), func(c *gin.Context) {
		claims, _ := c.Get("claims")
		c.JSON(http.StatusOK, gin.H{"claims": claims})
	})
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	r := protectedRouter(&JWTVerifier{Secret: "s"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest("GET", "/admin", nil))
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	r := protectedRouter(&JWTVerifier{Secret: "s"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Token abc")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidAdminToken(t *testing.T) {
	secret := "test-secret"
	raw, err := tokens.GenerateAdminToken(secret, "admin", time.Minute)
	require.NoError(t, err)

	r := protectedRouter(&JWTVerifier{Secret: secret})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	raw, err := tokens.GenerateAdminToken("other", "admin", time.Minute)
	require.NoError(t, err)

	r := protectedRouter(&JWTVerifier{Secret: "secret"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/admin", nil)
	req.Header.Set("Authorization", "Bearer "+raw)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
