// Package slugs allocates unique slugs in a table.
package slugs

import (
	"context"
	"errors"
	"regexp"
	"strconv"

	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

const maxAttempts = 5

// Next returns the smallest unused slug for base in the table:
// base, base-2, base-3, ...
func Next(ctx context.Context, q kpool.Queryer, table string, base string) (string, error) {
	rows, err := q.Query(
		ctx,
		`select "slug" from "`+table+`" where "slug" = $1 or "slug" ~ ('^' || $2 || '-[0-9]+$')`,
		base, regexp.QuoteMeta(base),
	)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	used := map[int]bool{}
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return "", err
		}
		if s == base {
			used[1] = true
			continue
		}
		if n, err := strconv.Atoi(s[len(base)+1:]); err == nil {
			used[n] = true
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}

	n := 1
	for used[n] {
		n += 1
	}
	return domain.NthSlug(base, n), nil
}

// Insert allocates a slug and runs insert with it, in a savepoint.
//
// When insert conflicts (maybe with a concurrent insertion), it retries with another slug.
func Insert(ctx context.Context, tx kpool.Tx, table string, base string, insert func(kpool.Tx, string) error) error {
	var err error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var slug string
		slug, err = Next(ctx, tx, table, base)
		if err != nil {
			return err
		}

		err = kpool.InTx(ctx, tx, func(sp kpool.Tx) error { return insert(sp, slug) })
		if err == nil {
			return nil
		}
		if !errors.Is(err, domerr.ErrConflict) {
			return err
		}
	}
	return err
}
