package postgres

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

// requested data is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return domerr.ErrMissing
}

// requested data is found too much.
type TooMuch struct {
	Table    string
	Identity string
	Expected int
}

var _ error = TooMuch{}

func (t TooMuch) Error() string {
	return fmt.Sprintf(
		"%s is found in %s more than %d times",
		t.Identity, t.Table, t.Expected,
	)
}

func (t TooMuch) Unwrap() error {
	return domerr.ErrTooMuch
}

// a change violates unique constraint.
type Conflict struct {
	Table      string
	Constraint string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("conflict in %s (constraint: %s)", c.Table, c.Constraint)
}

func (c Conflict) Unwrap() error {
	return domerr.ErrConflict
}

// Translate converts errors from postgres into domain errors.
//
// Unique violation becomes Conflict, and foreign key violation becomes Missing.
// Other errors are returned as is.
func Translate(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}

	switch pgErr.Code {
	case pgerrcode.UniqueViolation, pgerrcode.ExclusionViolation:
		return Conflict{Table: pgErr.TableName, Constraint: pgErr.ConstraintName}
	case pgerrcode.ForeignKeyViolation:
		return Missing{
			Table:    pgErr.TableName,
			Identity: fmt.Sprintf("referenced record (constraint: %s)", pgErr.ConstraintName),
		}
	case pgerrcode.CheckViolation:
		return fmt.Errorf("%w: %s", domerr.ErrInvalidArgument, pgErr.Message)
	}
	return err
}
