package store

// Page size bounds for list endpoints.
const (
	DefaultPageLimit = 6
	MaxPageLimit     = 100
)

// PageParams contains page-number pagination request parameters.
type PageParams struct {
	Page  int // 1-based page number
	Limit int // Items per page (defaults to 6 with a maximum of 100)
}

// DefaultPageParams returns the first page with the default size.
func DefaultPageParams() PageParams {
	return PageParams{Page: 1, Limit: DefaultPageLimit}
}

// Validate checks and corrects pagination parameters.
func (p *PageParams) Validate() {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = DefaultPageLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
}

// Offset returns the number of rows to skip for the requested page.
func (p PageParams) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Page is one page of results plus the total number of matching rows.
type Page[T any] struct {
	Items []T
	Total int
	PageParams
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Page*p.Limit < p.Total
}

// HasPrevious reports whether an earlier page exists.
func (p Page[T]) HasPrevious() bool {
	return p.Page > 1
}

// MapPage converts the items of a page while keeping its metadata.
func MapPage[T, U any](p Page[T], fn func(T) U) Page[U] {
	items := make([]U, 0, len(p.Items))
	for _, item := range p.Items {
		items = append(items, fn(item))
	}
	return Page[U]{Items: items, Total: p.Total, PageParams: p.PageParams}
}
