package graphql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	graphql "github.com/graph-gophers/graphql-go"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

var validate = validator.New()

// check validates the input struct with `validate` tags.
func check(input any) error {
	if err := validate.Struct(input); err != nil {
		return fmt.Errorf("%w: %s", domerr.ErrInvalidArgument, err)
	}
	return nil
}

func parseID(id graphql.ID) (int64, error) {
	n, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: bad id: %s", domerr.ErrInvalidArgument, id)
	}
	return n, nil
}

func toID(n int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(n, 10))
}

func toTime(t time.Time) graphql.Time {
	return graphql.Time{Time: t}
}

func toTimeOrNil(t *time.Time) *graphql.Time {
	if t == nil {
		return nil
	}
	return &graphql.Time{Time: *t}
}

// enum converts domain values into GraphQL enum values.
func enum[S ~string](s S) string {
	return strings.ToUpper(string(s))
}

func fromEnum(s string) string {
	return strings.ToLower(s)
}

type pageInput struct {
	Number  *int32 `validate:"omitempty,gte=1"`
	PerPage *int32 `validate:"omitempty,gte=1,lte=100"`
}

func (p *pageInput) page() (domain.Page, error) {
	if p == nil {
		return domain.Page{}.Normalized(), nil
	}
	if err := check(p); err != nil {
		return domain.Page{}, err
	}
	page := domain.Page{}
	if p.Number != nil {
		page.Number = int(*p.Number)
	}
	if p.PerPage != nil {
		page.PerPage = int(*p.PerPage)
	}
	return page.Normalized(), nil
}

// limit reads limit arguments. Absent or out of [1, 100] is an invalid argument.
func limit(n *int32, fallback int) (int, error) {
	if n == nil {
		return fallback, nil
	}
	if *n < 1 || 100 < *n {
		return 0, fmt.Errorf("%w: limit should be in [1, 100]", domerr.ErrInvalidArgument)
	}
	return int(*n), nil
}

type pageInfoResolver struct {
	page       domain.Page
	total      int
	totalPages int
	hasNext    bool
}

func pageInfoOf[T any](p domain.Paginated[T]) *pageInfoResolver {
	return &pageInfoResolver{
		page:       p.Page.Normalized(),
		total:      p.Total,
		totalPages: p.TotalPages(),
		hasNext:    p.HasNext(),
	}
}

func (p *pageInfoResolver) Number() int32     { return int32(p.page.Number) }
func (p *pageInfoResolver) PerPage() int32    { return int32(p.page.PerPage) }
func (p *pageInfoResolver) Total() int32      { return int32(p.total) }
func (p *pageInfoResolver) TotalPages() int32 { return int32(p.totalPages) }
func (p *pageInfoResolver) HasNext() bool     { return p.hasNext }
