package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLimit is applied when the caller omits limit.
	DefaultLimit = 50
	// MaxLimit caps a single page of results.
	MaxLimit = 200
)

// Pagination holds parsed limit/offset parameters.
type Pagination struct {
	Limit  int
	Offset int
}

// ValidatePagination normalizes limit/offset. Limit defaults to DefaultLimit,
// is capped at MaxLimit; negative offsets become zero.
func ValidatePagination(limit, offset int) Pagination {
	if limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return Pagination{Limit: limit, Offset: offset}
}

// ParsePagination parses limit/offset from the query string with defaults applied.
func ParsePagination(c *gin.Context) Pagination {
	limit := parseQueryInt(c, "limit", DefaultLimit)
	offset := parseQueryInt(c, "offset", 0)
	return ValidatePagination(limit, offset)
}

func parseQueryInt(c *gin.Context, key string, defaultVal int) int {
	if val := c.Query(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}
