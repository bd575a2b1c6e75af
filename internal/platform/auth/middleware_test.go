package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signed(t *testing.T, method jwt.SigningMethod, claims jwt.MapClaims, key any) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", RequireAuth(testSecret), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": UserID(c), "role": Role(c)})
	})
	r.GET("/staff", RequireAuth(testSecret), RequireRole(RoleStaff, RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func do(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAuth(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	w := do(r, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	good := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "role": "user", "exp": exp}, testSecret)
	w = do(r, "/me", good)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"alice","role":"user"}`, w.Body.String())

	wrongKey := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "exp": exp}, []byte("other"))
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", wrongKey).Code)

	hs512 := signed(t, jwt.SigningMethodHS512, jwt.MapClaims{"sub": "alice", "exp": exp}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", hs512).Code)

	noExp := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice"}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", noExp).Code)

	expired := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "alice", "exp": time.Now().Add(-time.Minute).Unix()}, testSecret)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", expired).Code)
}

func TestRequireRole(t *testing.T) {
	r := newRouter()
	exp := time.Now().Add(time.Hour).Unix()

	user := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "u", "role": RoleUser, "exp": exp}, testSecret)
	assert.Equal(t, http.StatusForbidden, do(r, "/staff", user).Code)

	staff := signed(t, jwt.SigningMethodHS256, jwt.MapClaims{"sub": "s", "role": RoleStaff, "exp": exp}, testSecret)
	assert.Equal(t, http.StatusNoContent, do(r, "/staff", staff).Code)
}
