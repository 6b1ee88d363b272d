package utils

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFor(t *testing.T, query string) (int, int) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/contracts"+query, nil)
	return GetPaginationParams(c)
}

func TestGetPaginationParams(t *testing.T) {
	cases := []struct {
		query    string
		page     int
		pageSize int
	}{
		{"", 1, 20},
		{"?page=3&pageSize=50", 3, 50},
		{"?page=0&pageSize=0", 1, 20},
		{"?page=-2&pageSize=101", 1, 20},
		{"?page=abc&pageSize=xyz", 1, 20},
	}

	for _, tc := range cases {
		page, pageSize := paginationFor(t, tc.query)
		assert.Equal(t, tc.page, page, "query %q", tc.query)
		assert.Equal(t, tc.pageSize, pageSize, "query %q", tc.query)
	}
}
