package handler

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sanigest/sanigest/internal/apiserver/database"
)

// parsePagination reads page/limit query parameters. Out-of-range values are
// clamped by the data layer.
func parsePagination(c *gin.Context) database.Pagination {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return database.Pagination{Page: page, Limit: limit}
}

// parseDateQuery reads an RFC 3339 or YYYY-MM-DD date query parameter. A
// missing or malformed value yields the zero time, which filters ignore.
func parseDateQuery(c *gin.Context, name string) time.Time {
	v := c.Query(name)
	if v == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", v); err == nil {
		return t
	}
	return time.Time{}
}
