package domain

const (
	DefaultPerPage = 24
	MaxPerPage     = 100
)

// Page is a request for a page of a listing. Number is 1-origin.
type Page struct {
	Number  int
	PerPage int
}

// Normalized returns Page with defaults applied and bounds enforced.
func (p Page) Normalized() Page {
	if p.Number < 1 {
		p.Number = 1
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if MaxPerPage < p.PerPage {
		p.PerPage = MaxPerPage
	}
	return p
}

func (p Page) Offset() int {
	n := p.Normalized()
	return (n.Number - 1) * n.PerPage
}

func (p Page) Limit() int {
	return p.Normalized().PerPage
}

type Paginated[T any] struct {
	Items []T
	Total int
	Page  Page
}

// TotalPages is a count of pages. Empty result has 1 page.
func (p Paginated[T]) TotalPages() int {
	per := p.Page.Normalized().PerPage
	pages := (p.Total + per - 1) / per
	if pages < 1 {
		return 1
	}
	return pages
}

func (p Paginated[T]) HasNext() bool {
	return p.Page.Normalized().Number < p.TotalPages()
}
