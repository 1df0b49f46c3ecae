package handlers

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"realestate/internal/apperr"
)

// ListLimits bounds page sizes on list endpoints.
type ListLimits struct {
	Default int64
	Max     int64
}

// parsePaginationParams reads 1-based page and limit. Missing values take
// the defaults and limit is clamped to the configured maximum.
func parsePaginationParams(pageStr, limitStr string, limits ListLimits) (int64, int64, error) {
	page := int64(1)
	limit := limits.Default

	if pageStr = strings.TrimSpace(pageStr); pageStr != "" {
		p, err := strconv.ParseInt(pageStr, 10, 64)
		if err != nil || p < 1 {
			return 0, 0, apperr.Validation("page must be a positive integer")
		}
		page = p
	}

	if limitStr = strings.TrimSpace(limitStr); limitStr != "" {
		l, err := strconv.ParseInt(limitStr, 10, 64)
		if err != nil || l < 1 {
			return 0, 0, apperr.Validation("limit must be a positive integer")
		}
		limit = l
	}

	if limits.Max > 0 && limit > limits.Max {
		limit = limits.Max
	}
	if limit > 0 && page-1 > math.MaxInt64/limit {
		return 0, 0, apperr.Validation("page is out of range")
	}
	return page, limit, nil
}

type pageRef struct {
	Page  int64 `json:"page"`
	Limit int64 `json:"limit"`
}

type paginationLinks struct {
	Next *pageRef `json:"next,omitempty"`
	Prev *pageRef `json:"prev,omitempty"`
}

// buildPagination links to the next page only while matches remain after
// this one, and to the previous page from page 2 on.
func buildPagination(page, limit int64, count int, total int64) paginationLinks {
	var links paginationLinks
	if (page-1)*limit+int64(count) < total {
		links.Next = &pageRef{Page: page + 1, Limit: limit}
	}
	if page > 1 {
		links.Prev = &pageRef{Page: page - 1, Limit: limit}
	}
	return links
}

type listResponse struct {
	Success    bool            `json:"success"`
	Count      int             `json:"count"`
	Total      int64           `json:"total"`
	Pagination paginationLinks `json:"pagination"`
	Data       interface{}     `json:"data"`
}

func respondList(c *gin.Context, page, limit int64, count int, total int64, data interface{}) {
	c.JSON(http.StatusOK, listResponse{
		Success:    true,
		Count:      count,
		Total:      total,
		Pagination: buildPagination(page, limit, count, total),
		Data:       data,
	})
}
