package postgres

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
)

type pgSchema struct {
	pool       kpool.Pool
	repository string
}

// New creates a schema backed by the schema repository directory.
//
// The repository has directories named with version numbers,
// and each of them has .sql files applied in lexical order.
//
//	<repository>/
//	  1/
//	    00_types.sql
//	    01_users.sql
//	  2/
//	    ...
func New(pool kpool.Pool, repository string) kschema.SchemaInterface {
	return &pgSchema{pool: pool, repository: repository}
}

type version struct {
	Number int
	Root   string
}

func (v version) apply(ctx context.Context, q kpool.Queryer) error {
	return filepath.WalkDir(v.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".sql") {
			return nil
		}
		query, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		if _, err := q.Exec(ctx, string(query)); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		return nil
	})
}

func (s *pgSchema) Version(ctx context.Context) (int, error) {
	return currentVersion(ctx, s.pool)
}

func currentVersion(ctx context.Context, q kpool.Queryer) (int, error) {
	var v *int
	if err := q.QueryRow(
		ctx, `select max("version") from "schema_version"`,
	).Scan(&v); err != nil {
		if pgerr := new(pgconn.PgError); errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UndefinedTable {
			return 0, nil
		}
		return -1, err
	}
	if v == nil {
		return 0, nil
	}
	return *v, nil
}

func (s *pgSchema) Latest() (int, error) {
	vs, err := s.versions()
	if err != nil {
		return -1, err
	}
	if len(vs) == 0 {
		return 0, nil
	}
	return vs[len(vs)-1].Number, nil
}

func (s *pgSchema) Upgrade(ctx context.Context) ([]int, error) {
	vs, err := s.versions()
	if err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// serialize upgraders
	if _, err := tx.Exec(ctx, `select pg_advisory_xact_lock(hashtext('photoshare.schema'))`); err != nil {
		return nil, err
	}

	current, err := currentVersion(ctx, tx)
	if err != nil {
		return nil, err
	}

	applied := []int{}
	for _, v := range vs {
		if v.Number <= current {
			continue
		}
		if err := v.apply(ctx, tx); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `delete from "schema_version"`); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(
			ctx, `insert into "schema_version" ("version") values ($1)`, v.Number,
		); err != nil {
			return nil, err
		}
		applied = append(applied, v.Number)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return applied, nil
}

func (s *pgSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	cctx, cancel := context.WithCancelCause(ctx)

	check := func() {
		latest, err := s.Latest()
		if err != nil {
			cancel(fmt.Errorf("failed to read schema repository: %w", err))
			return
		}
		current, err := s.Version(cctx)
		if err != nil {
			cancel(fmt.Errorf("failed to get current schema version: %w", err))
			return
		}
		if current < latest {
			cancel(fmt.Errorf(
				"schema is outdated: %d (in db) < %d (in repository)", current, latest,
			))
		}
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		cancel(err)
		return cctx, func() {}
	}
	if err := w.Add(s.repository); err != nil {
		w.Close()
		cancel(err)
		return cctx, func() {}
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-cctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) {
					continue
				}
				check()
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				cancel(err)
				return
			}
		}
	}()

	check()
	return cctx, func() { cancel(nil) }
}

// versions looks up the schema repository, sorted by version number.
func (s *pgSchema) versions() ([]version, error) {
	entries, err := os.ReadDir(s.repository)
	if err != nil {
		return nil, err
	}

	vs := make([]version, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		n, err := strconv.Atoi(e.Name())
		if err != nil {
			continue
		}
		vs = append(vs, version{Number: n, Root: filepath.Join(s.repository, e.Name())})
	}
	slices.SortFunc(vs, func(a, b version) int { return cmp.Compare(a.Number, b.Number) })
	return vs, nil
}

// Null returns a schema without repository.
//
// It cannot upgrade, and its Context is never canceled by schema changes.
func Null() kschema.SchemaInterface {
	return nullSchema{}
}

type nullSchema struct{}

func (nullSchema) Upgrade(context.Context) ([]int, error) {
	return nil, errors.New("no schema repository available")
}

func (nullSchema) Version(context.Context) (int, error) { return -1, nil }

func (nullSchema) Latest() (int, error) { return -1, nil }

func (nullSchema) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	return ctx, func() {}
}
