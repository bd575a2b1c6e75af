package ids

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewULIDIsMonotonicAndValid(t *testing.T) {
	g := NewULID()
	at := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	a := g.NewULID(at)
	b := g.NewULID(at)
	assert.True(t, Valid(a))
	assert.Less(t, a, b)
	assert.False(t, Valid("NOPE"))
	assert.False(t, Valid(""))
}

func TestParam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/books/:book_id", func(c *gin.Context) {
		id, ok := Param(c, "book_id")
		if !ok {
			return
		}
		c.String(http.StatusOK, id)
	})

	id := NewULID().NewULID(time.Now())
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/"+id, nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, id, w.Body.String())

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/books/NOPE", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid book_id")
}
