// Package pool wraps pgx connection pools behind small interfaces,
// so db implementations can take a pool, a connection or a transaction alike.
package pool

import (
	"context"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

// Queryer sends SQL.
//
// This is a subset of methods shared by `*pgxpool.Conn` and `pgx.Tx`.
type Queryer interface {
	// Exec sends SQL which has no result rows.
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)

	// Query sends SQL which has result rows.
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)

	// QueryRow sends SQL which has just one result row.
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Begin is something starting a transaction.
type Begin interface {
	Begin(ctx context.Context) (Tx, error)
}

// BeginTx is something starting a transaction with options.
type BeginTx interface {
	Begin
	BeginTx(ctx context.Context, opts pgx.TxOptions) (Tx, error)
}

// Tx is a transaction (or a savepoint, when it is begun in another Tx).
//
// `pgx.Tx` itself does not satisfy this; Begin on Pool or Conn returns a Tx.
type Tx interface {
	Queryer
	Begin

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Conn is a connection acquired from Pool.
type Conn interface {
	Queryer
	BeginTx

	Ping(ctx context.Context) error
	Release()
}

// Pool is a connection pool.
type Pool interface {
	Queryer
	BeginTx

	Acquire(ctx context.Context) (Conn, error)
	Ping(ctx context.Context) error
	Close()
}

type tx struct {
	base pgx.Tx
}

func (t *tx) Begin(ctx context.Context) (Tx, error) {
	nested, err := t.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &tx{base: nested}, nil
}

func (t *tx) Commit(ctx context.Context) error   { return t.base.Commit(ctx) }
func (t *tx) Rollback(ctx context.Context) error { return t.base.Rollback(ctx) }

func (t *tx) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return t.base.Exec(ctx, sql, args...)
}
func (t *tx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return t.base.Query(ctx, sql, args...)
}
func (t *tx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return t.base.QueryRow(ctx, sql, args...)
}

type conn struct {
	base *pgxpool.Conn
}

func (c *conn) Begin(ctx context.Context) (Tx, error) {
	t, err := c.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &tx{base: t}, nil
}
func (c *conn) BeginTx(ctx context.Context, opts pgx.TxOptions) (Tx, error) {
	t, err := c.base.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &tx{base: t}, nil
}
func (c *conn) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return c.base.Exec(ctx, sql, args...)
}
func (c *conn) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return c.base.Query(ctx, sql, args...)
}
func (c *conn) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return c.base.QueryRow(ctx, sql, args...)
}
func (c *conn) Ping(ctx context.Context) error { return c.base.Ping(ctx) }
func (c *conn) Release()                       { c.base.Release() }

type pool struct {
	base *pgxpool.Pool
}

// Wrap wraps *pgxpool.Pool as Pool.
func Wrap(p *pgxpool.Pool) Pool {
	return &pool{base: p}
}

// Connect opens a new Pool to the database at url.
func Connect(ctx context.Context, url string) (Pool, error) {
	p, err := pgxpool.Connect(ctx, url)
	if err != nil {
		return nil, err
	}
	return Wrap(p), nil
}

func (p *pool) Begin(ctx context.Context) (Tx, error) {
	t, err := p.base.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &tx{base: t}, nil
}
func (p *pool) BeginTx(ctx context.Context, opts pgx.TxOptions) (Tx, error) {
	t, err := p.base.BeginTx(ctx, opts)
	if err != nil {
		return nil, err
	}
	return &tx{base: t}, nil
}
func (p *pool) Acquire(ctx context.Context) (Conn, error) {
	c, err := p.base.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	return &conn{base: c}, nil
}
func (p *pool) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return p.base.Exec(ctx, sql, args...)
}
func (p *pool) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return p.base.Query(ctx, sql, args...)
}
func (p *pool) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return p.base.QueryRow(ctx, sql, args...)
}
func (p *pool) Ping(ctx context.Context) error { return p.base.Ping(ctx) }
func (p *pool) Close()                         { p.base.Close() }

// InTx runs f in a transaction begun on b.
//
// When f returns nil, the transaction is committed. Otherwise, rolled back.
func InTx(ctx context.Context, b Begin, f func(Tx) error) error {
	t, err := b.Begin(ctx)
	if err != nil {
		return err
	}
	defer t.Rollback(ctx)

	if err := f(t); err != nil {
		return err
	}
	return t.Commit(ctx)
}
