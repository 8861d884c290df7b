package dto

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type PaginationParams struct {
	Page     int
	PageSize int
	Offset   int
}

// ParsePagination reads page and page_size. Out of range or malformed
// values fall back to the first page of DefaultPageSize; page_size is
// capped at MaxPageSize.
func ParsePagination(c *gin.Context) PaginationParams {
	page := queryInt(c, "page", 1)
	if page < 1 {
		page = 1
	}

	size := queryInt(c, "page_size", DefaultPageSize)
	switch {
	case size < 1:
		size = DefaultPageSize
	case size > MaxPageSize:
		size = MaxPageSize
	}

	return PaginationParams{Page: page, PageSize: size, Offset: (page - 1) * size}
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}

func NewPagination(page, pageSize, totalItems int) Pagination {
	return Pagination{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: (totalItems + pageSize - 1) / pageSize,
	}
}

// Bounds clamps the page to a slice of n items.
func (p PaginationParams) Bounds(n int) (start, end int) {
	start = min(p.Offset, n)
	end = min(start+p.PageSize, n)
	return start, end
}
