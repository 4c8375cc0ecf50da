// Package query builds SQL with numbered placeholders.
package query

import (
	"fmt"
	"strings"

	"github.com/opst/photoshare/pkg/domain"
)

type Builder struct {
	conds []string
	args  []any
}

// Arg adds an argument and returns its placeholder.
func (b *Builder) Arg(v any) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *Builder) Args() []any {
	return b.args
}

// Where adds a condition. Conditions are joined with "and".
func (b *Builder) Where(cond string) {
	b.conds = append(b.conds, cond)
}

// WhereClause renders "where ..." clause, or empty string when no conditions.
func (b *Builder) WhereClause() string {
	if len(b.conds) == 0 {
		return ""
	}
	return "where " + strings.Join(b.conds, " and ")
}

// Scope adds the condition of domain.Scope on the table alias.
//
// The table should have "privacy" and "owner_id" columns.
func (b *Builder) Scope(alias string, scope domain.Scope) {
	if scope.Everything {
		return
	}
	if scope.OwnerID != nil {
		b.Where(fmt.Sprintf(
			`(%s."privacy" = 'public' or %s."owner_id" = %s)`, alias, alias, b.Arg(*scope.OwnerID),
		))
		return
	}
	b.Where(fmt.Sprintf(`%s."privacy" = 'public'`, alias))
}
