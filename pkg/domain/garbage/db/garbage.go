package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type GarbageInterface interface {
	// Pop pops a garbage item.
	//
	// # Args
	//
	// - context.Context
	//
	// - func(domain.Garbage) error: handler with popped item.
	// If this handler returns error, the popped item is rolled back.
	// Otherwise, the popped garbage is removed from DB.
	//
	// # Returns
	//
	// - bool: whether an item is popped
	//
	// - error
	Pop(context.Context, func(domain.Garbage) error) (bool, error)

	// Count returns the number of pending garbage items.
	Count(context.Context) (int, error)
}
