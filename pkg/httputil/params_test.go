package httputil

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/jwalitptl/hospital-scheduling/pkg/errors"
)

func newContext(target string) (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, target, nil)
	return c, w
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query  string
		limit  int
		offset int
	}{
		{"", DefaultLimit, 0},
		{"?limit=5&offset=10", 5, 10},
		{"?limit=1000", MaxLimit, 0},
		{"?limit=abc&offset=-3", DefaultLimit, 0},
		{"?limit=0", DefaultLimit, 0},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			c, _ := newContext("/patients" + tt.query)
			p := ParsePagination(c)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestQueryInt64(t *testing.T) {
	c, _ := newContext("/x?department=3&clinician=abc")

	v, err := QueryInt64(c, "department")
	require.NoError(t, err)
	require.NotNil(t, v)
	assert.Equal(t, int64(3), *v)

	_, err = QueryInt64(c, "clinician")
	require.Error(t, err)
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))

	v, err = QueryInt64(c, "missing")
	require.NoError(t, err)
	assert.Nil(t, v)
}

func TestQueryDate(t *testing.T) {
	c, _ := newContext("/x?date_from=2025-01-31&date_to=31/01/2025")

	d, err := QueryDate(c, "date_from")
	require.NoError(t, err)
	assert.Equal(t, 31, d.Day())

	_, err = QueryDate(c, "date_to")
	assert.Error(t, err)
}

func TestRespondWithErrorHidesInternalDetails(t *testing.T) {
	c, w := newContext("/x")

	RespondWithError(c, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection refused")
	assert.Contains(t, w.Body.String(), `"status":"error"`)
}

func TestRespondWithErrorFieldErrors(t *testing.T) {
	c, w := newContext("/x")

	RespondWithError(c, apperrors.FieldError("scheduled_at", "must be in the future"))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"scheduled_at":["must be in the future"]`)
}
