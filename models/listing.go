package models

import (
	"net/http"
	"strconv"
	"strings"

	"gorm.io/gorm"
)

// MaxPageSize caps every listing endpoint regardless of its own default.
const MaxPageSize = 200

// allowedPageSizes is the allow-list shared by all listing endpoints.
// A requested size outside the list falls back to the endpoint default,
// never an error.
var allowedPageSizes = map[int]bool{10: true, 25: true, 50: true, 100: true, 200: true}

// ListParams carries pagination and free-text search for Index/Trash listings.
type ListParams struct {
	Page     int
	PageSize int
	Search   string
}

// ParseListParams reads page, page_size and q from the query string.
// defaultSize is per-endpoint (admin entities page by 10, workflow entities
// by 25, notes by 50).
func ParseListParams(r *http.Request, defaultSize int) ListParams {
	p := ListParams{Page: 1, PageSize: defaultSize}

	if v, err := strconv.Atoi(r.URL.Query().Get("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("page_size")); err == nil && allowedPageSizes[v] {
		p.PageSize = v
	}
	if p.PageSize > MaxPageSize {
		p.PageSize = MaxPageSize
	}
	p.Search = strings.TrimSpace(r.URL.Query().Get("q"))
	return p
}

// Offset returns the row offset for the current page.
func (p ListParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// ApplySearch ORs a case-insensitive LIKE %term% over the given columns.
func (p ListParams) ApplySearch(q *gorm.DB, columns ...string) *gorm.DB {
	if p.Search == "" || len(columns) == 0 {
		return q
	}
	term := "%" + strings.ToLower(p.Search) + "%"
	clause := make([]string, len(columns))
	args := make([]interface{}, len(columns))
	for i, col := range columns {
		clause[i] = "LOWER(" + col + ") LIKE ?"
		args[i] = term
	}
	return q.Where(strings.Join(clause, " OR "), args...)
}

// ListResponse is the uniform Index/Trash payload: rows, total count,
// echoing pagination, plus the caller's capability map for the screen.
type ListResponse struct {
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
	Data     interface{}     `json:"data"`
	Can      map[string]bool `json:"can,omitempty"`
}
