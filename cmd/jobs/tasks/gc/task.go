package gc

import (
	"context"
	"errors"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/pkg/conn/storage"
	"github.com/opst/photoshare/pkg/domain"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
)

// initial value for task
func Seed() any {
	return nil
}

// Task deletes an object in garbage from storage.
//
// Missing objects count as deleted.
func Task(garbage kgarbage.GarbageInterface, store storage.Storage) recurring.Task[any] {
	return func(ctx context.Context, value any) (any, bool, error) {
		pop, err := garbage.Pop(ctx, func(g domain.Garbage) error {
			if err := store.Delete(ctx, g.ObjectKey); err != nil && !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			return nil
		})
		return value, pop, err
	}
}
