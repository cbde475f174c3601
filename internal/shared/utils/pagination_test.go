package utils

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"panelsync/internal/shared/constants"
)

func queryContext(rawQuery string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/?"+rawQuery, nil)
	return c
}

func TestValidatePagination(t *testing.T) {
	tests := []struct {
		name         string
		page         int
		pageSize     int
		wantPage     int
		wantPageSize int
	}{
		{name: "valid values", page: 2, pageSize: 20, wantPage: 2, wantPageSize: 20},
		{name: "page below one", page: 0, pageSize: 20, wantPage: constants.DefaultPage, wantPageSize: 20},
		{name: "negative page size", page: 1, pageSize: -5, wantPage: 1, wantPageSize: constants.DefaultPageSize},
		{name: "page size capped", page: 1, pageSize: 10000, wantPage: 1, wantPageSize: constants.MaxPageSize},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidatePagination(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, got.Page)
			assert.Equal(t, tt.wantPageSize, got.PageSize)
		})
	}
}

func TestParsePagination(t *testing.T) {
	got := ParsePagination(queryContext("page=3&page_size=15"))
	assert.Equal(t, Pagination{Page: 3, PageSize: 15}, got)

	got = ParsePagination(queryContext("page=abc&page_size=0"))
	assert.Equal(t, Pagination{Page: constants.DefaultPage, PageSize: constants.DefaultPageSize}, got)
}

func TestParseLimit(t *testing.T) {
	assert.Equal(t, 50, ParseLimit(queryContext(""), 50, 500))
	assert.Equal(t, 10, ParseLimit(queryContext("limit=10"), 50, 500))
	assert.Equal(t, 500, ParseLimit(queryContext("limit=9000"), 50, 500))
	assert.Equal(t, 50, ParseLimit(queryContext("limit=-1"), 50, 500))
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 20))
	assert.Equal(t, 1, TotalPages(20, 20))
	assert.Equal(t, 2, TotalPages(21, 20))
	assert.Equal(t, 1, TotalPages(5, 0))
}
