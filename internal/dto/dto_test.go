package dto

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext(t *testing.T, target string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", target, nil)
	return c
}

func TestParseWindow(t *testing.T) {
	loc := time.FixedZone("BRT", -3*3600)

	t.Run("happy: open window", func(t *testing.T) {
		w, err := ParseWindow(testContext(t, "/x"), loc)
		require.NoError(t, err)
		assert.Nil(t, w.From)
		assert.Nil(t, w.To)
		assert.Equal(t, "open_open", w.Key())
	})

	t.Run("happy: date-only bounds include the last day", func(t *testing.T) {
		w, err := ParseWindow(testContext(t, "/x?date_from=2024-01-01&date_to=2024-01-31"), loc)
		require.NoError(t, err)
		assert.True(t, time.Date(2024, 1, 1, 0, 0, 0, 0, loc).Equal(*w.From))
		assert.True(t, time.Date(2024, 2, 1, 0, 0, 0, 0, loc).Equal(*w.To))
		assert.Equal(t, "2024-01-01T03:00:00Z_2024-02-01T03:00:00Z", w.Key())
	})

	t.Run("happy: rfc3339 bound is exact", func(t *testing.T) {
		w, err := ParseWindow(testContext(t, "/x?date_to=2024-01-31T12:00:00Z"), loc)
		require.NoError(t, err)
		assert.Nil(t, w.From)
		assert.True(t, time.Date(2024, 1, 31, 12, 0, 0, 0, time.UTC).Equal(*w.To))
	})

	t.Run("happy: same day window", func(t *testing.T) {
		_, err := ParseWindow(testContext(t, "/x?date_from=2024-01-01&date_to=2024-01-01"), loc)
		assert.NoError(t, err)
	})

	t.Run("bad: malformed date", func(t *testing.T) {
		_, err := ParseWindow(testContext(t, "/x?date_from=01/02/2024"), loc)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})

	t.Run("bad: inverted window", func(t *testing.T) {
		_, err := ParseWindow(testContext(t, "/x?date_from=2024-02-01&date_to=2024-01-01"), loc)
		assert.ErrorIs(t, err, ErrInvalidWindow)
	})
}

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query    string
		page     int
		pageSize int
		offset   int
	}{
		{"", 1, 20, 0},
		{"?page=3&page_size=10", 3, 10, 20},
		{"?page=0&page_size=-1", 1, 20, 0},
		{"?page_size=1000", 1, 100, 0},
		{"?page=abc", 1, 20, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := ParsePagination(testContext(t, "/x"+tt.query))
			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.pageSize, p.PageSize)
			assert.Equal(t, tt.offset, p.Offset)
		})
	}
}

func TestNewPagination(t *testing.T) {
	assert.Equal(t, Pagination{Page: 1, PageSize: 20, TotalItems: 41, TotalPages: 3}, NewPagination(1, 20, 41))
	assert.Equal(t, 0, NewPagination(1, 20, 0).TotalPages)
}

func TestPaginationParams_Bounds(t *testing.T) {
	p := PaginationParams{Page: 2, PageSize: 10, Offset: 10}

	start, end := p.Bounds(25)
	assert.Equal(t, 10, start)
	assert.Equal(t, 20, end)

	start, end = p.Bounds(15)
	assert.Equal(t, 10, start)
	assert.Equal(t, 15, end)

	start, end = p.Bounds(5)
	assert.Equal(t, 5, start)
	assert.Equal(t, 5, end)
}
