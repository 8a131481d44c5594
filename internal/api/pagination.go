package api

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pageza/foodgram/backend/config"
	"github.com/pageza/foodgram/backend/internal/apperror"
	"github.com/pageza/foodgram/backend/internal/types"
)

// parsePage reads ?page and ?limit. A limit above the configured maximum is
// clamped rather than rejected.
func parsePage(c *gin.Context, cfg config.PaginationConfig) (types.PageRequest, error) {
	page := types.PageRequest{Page: 1, Limit: cfg.PageSize}

	if raw := c.Query("page"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperror.Validation("page", apperror.CodeInvalid, "page must be a positive integer")
		}
		page.Page = n
	}
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			return page, apperror.Validation("limit", apperror.CodeInvalid, "limit must be a positive integer")
		}
		page.Limit = n
	}
	if cfg.MaxLimit > 0 && page.Limit > cfg.MaxLimit {
		page.Limit = cfg.MaxLimit
	}
	return page, nil
}

// newPage wraps results in the {count, next, previous, results} envelope
// with absolute links to the neighbouring pages.
func newPage[T any](c *gin.Context, req types.PageRequest, total int64, results []T) types.Page[T] {
	if results == nil {
		results = []T{}
	}
	out := types.Page[T]{Count: total, Results: results}
	if int64(req.Offset()+len(results)) < total {
		out.Next = pageURL(c, req.Page+1)
	}
	if req.Page > 1 {
		out.Previous = pageURL(c, req.Page-1)
	}
	return out
}

func pageURL(c *gin.Context, page int) *string {
	u := url.URL{
		Scheme: requestScheme(c),
		Host:   c.Request.Host,
		Path:   c.Request.URL.Path,
	}
	q := c.Request.URL.Query()
	if page <= 1 {
		q.Del("page")
	} else {
		q.Set("page", strconv.Itoa(page))
	}
	u.RawQuery = q.Encode()
	link := u.String()
	return &link
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}
