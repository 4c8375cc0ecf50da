package db

import "context"

// SchemaInterface represents the database schema and its repository.
type SchemaInterface interface {
	// Upgrade applies versions in the schema repository newer than the database.
	//
	// # Returns
	//
	// - []int: applied versions, in the applied order.
	//
	// - error
	Upgrade(ctx context.Context) ([]int, error)

	// Version returns the current version of the schema in database.
	//
	// When no schema is applied, it returns 0.
	Version(ctx context.Context) (int, error)

	// Latest returns the newest version found in the schema repository.
	Latest() (int, error)

	// Context returns a context which is canceled when
	// the schema in database becomes older than the repository.
	Context(ctx context.Context) (context.Context, context.CancelFunc)
}
