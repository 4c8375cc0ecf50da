package domain_test

import (
	"testing"

	"github.com/opst/photoshare/pkg/domain"
)

func TestPage(t *testing.T) {
	type Then struct {
		normalized domain.Page
		offset     int
	}
	theory := func(when domain.Page, then Then) func(*testing.T) {
		return func(t *testing.T) {
			if got := when.Normalized(); got != then.normalized {
				t.Errorf("unexpected page: %+v", got)
			}
			if got := when.Offset(); got != then.offset {
				t.Errorf("unexpected offset: %d", got)
			}
			if got := when.Limit(); got != then.normalized.PerPage {
				t.Errorf("unexpected limit: %d", got)
			}
		}
	}

	t.Run("zero value is the first page with default size", theory(
		domain.Page{},
		Then{normalized: domain.Page{Number: 1, PerPage: domain.DefaultPerPage}, offset: 0},
	))
	t.Run("third page", theory(
		domain.Page{Number: 3, PerPage: 10},
		Then{normalized: domain.Page{Number: 3, PerPage: 10}, offset: 20},
	))
	t.Run("page size is capped", theory(
		domain.Page{Number: 2, PerPage: 1000},
		Then{normalized: domain.Page{Number: 2, PerPage: domain.MaxPerPage}, offset: domain.MaxPerPage},
	))
	t.Run("negative values are defaulted", theory(
		domain.Page{Number: -1, PerPage: -5},
		Then{normalized: domain.Page{Number: 1, PerPage: domain.DefaultPerPage}, offset: 0},
	))
}

func TestPaginated(t *testing.T) {
	for name, testcase := range map[string]struct {
		total   int
		page    domain.Page
		pages   int
		hasNext bool
	}{
		"empty":               {total: 0, page: domain.Page{Number: 1, PerPage: 10}, pages: 1, hasNext: false},
		"exactly one page":    {total: 10, page: domain.Page{Number: 1, PerPage: 10}, pages: 1, hasNext: false},
		"first of two pages":  {total: 11, page: domain.Page{Number: 1, PerPage: 10}, pages: 2, hasNext: true},
		"second of two pages": {total: 11, page: domain.Page{Number: 2, PerPage: 10}, pages: 2, hasNext: false},
	} {
		t.Run(name, func(t *testing.T) {
			p := domain.Paginated[int]{Total: testcase.total, Page: testcase.page}
			if got := p.TotalPages(); got != testcase.pages {
				t.Errorf("unexpected pages: %d", got)
			}
			if got := p.HasNext(); got != testcase.hasNext {
				t.Errorf("unexpected HasNext: %v", got)
			}
		})
	}
}
