//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// Pagination describes one page of a page/limit listing.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"total_pages"`
}

// NormalizePage clamps page and limit to usable values.
func NormalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	return page, limit
}

// Offset returns the row offset of page at limit rows per page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}

// NewPagination builds the pagination block for total rows.
func NewPagination(page, limit, total int) Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return Pagination{Page: page, Limit: limit, Total: total, TotalPages: pages}
}
