package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	mysql "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestIsMatchesByCode(t *testing.T) {
	err := New(CodeBookUnavailable, "book 01H... has no copies left")
	assert.True(t, errors.Is(err, ErrBookUnavailable))
	assert.False(t, errors.Is(err, ErrAlreadyReturned))

	wrapped := fmt.Errorf("checkout: %w", err)
	assert.True(t, errors.Is(wrapped, ErrBookUnavailable))
}

func TestToHTTPStatus(t *testing.T) {
	cases := map[error]int{
		ErrInvalid("x"):            http.StatusBadRequest,
		ErrNotFound("x"):           http.StatusNotFound,
		ErrNotOwner:                http.StatusForbidden,
		ErrBorrowerInactive:        http.StatusForbidden,
		ErrDuplicateReservation:    http.StatusConflict,
		ErrAlreadyReturned:         http.StatusConflict,
		ErrBorrowingLimitExceeded:  http.StatusUnprocessableEntity,
		ErrInvariantViolation:      http.StatusConflict,
		errors.New("driver: boom"): http.StatusInternalServerError,
	}
	for err, want := range cases {
		assert.Equal(t, want, ToHTTPStatus(err), err.Error())
	}
}

func TestFromErrHidesUnknownErrors(t *testing.T) {
	body := FromErr(errors.New("dial tcp 10.0.0.1:3306: refused"))
	assert.Equal(t, CodeInternal, body.Error.Code)
	assert.NotContains(t, body.Error.Message, "10.0.0.1")

	body = FromErr(fmt.Errorf("wrap: %w", ErrNotFound("book not found")))
	assert.Equal(t, CodeNotFound, body.Error.Code)
	assert.Equal(t, "book not found", body.Error.Message)
}

func TestFromMySQL(t *testing.T) {
	err := FromMySQL(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}, "isbn already exists")
	assert.Equal(t, CodeConflict, CodeOf(err))

	plain := errors.New("other")
	assert.Same(t, plain, FromMySQL(plain, "x"))
	assert.NoError(t, FromMySQL(nil, "x"))
}

func TestRespondLogsOnlyServerErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)
	log := zap.New(core)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/borrowings", nil)
	Respond(c, log, ErrInvariantViolation)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), `"INVARIANT_VIOLATION"`)
	assert.Zero(t, logs.Len())

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/borrowings", nil)
	Respond(c, log, errors.New("driver: bad connection"))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.Len())
}
