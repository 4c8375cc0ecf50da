// Package testenv provides Postgres pools for tests.
//
// Tests using this package connect to the database at $PHOTOSHARE_TEST_DB
// (a postgres:// URL), and are skipped when it is not set.
package testenv

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	kpool "github.com/opst/photoshare/pkg/conn/db/postgres/pool"
	kpgschema "github.com/opst/photoshare/pkg/domain/schema/db/postgres"
)

const EnvTestDB = "PHOTOSHARE_TEST_DB"

// PoolBroker gives pools to tests.
type PoolBroker interface {
	// GetPool returns a pool.
	//
	// Tables are cleaned up before returning and after t.
	GetPool(ctx context.Context, t *testing.T) kpool.Pool
}

type broker struct {
	pool kpool.Pool
}

func (b *broker) GetPool(ctx context.Context, t *testing.T) kpool.Pool {
	t.Helper()
	ClearTables(ctx, t, b.pool)
	t.Cleanup(func() { ClearTables(context.Background(), t, b.pool) })
	return b.pool
}

// SchemaRepository returns the path to schema repository in this source tree.
func SchemaRepository() string {
	_, file, _, _ := runtime.Caller(0)
	// file = <root>/pkg/conn/db/postgres/pool/testenv/testenv.go
	root := filepath.Join(filepath.Dir(file), "..", "..", "..", "..", "..", "..")
	return filepath.Join(root, "schema", "postgres")
}

// NewPoolBroker connects to the test database and upgrades its schema.
//
// When $PHOTOSHARE_TEST_DB is empty, t is skipped.
func NewPoolBroker(ctx context.Context, t *testing.T) PoolBroker {
	t.Helper()

	url := os.Getenv(EnvTestDB)
	if url == "" {
		t.Skipf("%s is not set", EnvTestDB)
	}

	p, err := kpool.Connect(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(p.Close)

	if _, err := kpgschema.New(p, SchemaRepository()).Upgrade(ctx); err != nil {
		t.Fatal(err)
	}

	return &broker{pool: p}
}

func ClearTables(ctx context.Context, t *testing.T, p kpool.Pool) {
	t.Helper()

	for _, command := range []string{
		`truncate "users" restart identity cascade`,
		`truncate "flickr_user" restart identity cascade`,
		`truncate "tag" restart identity cascade`,
		`truncate "setting", "job", "garbage", "data_deletion_request" restart identity`,
		`truncate "keychain" cascade`,
		// by cascade, photos, albums, comments, claims and so on are deleted.
	} {
		if _, err := p.Exec(ctx, command); err != nil {
			t.Errorf("fail to clean-up tables.: %v", err)
		}
	}
}
