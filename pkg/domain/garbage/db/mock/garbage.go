// this package provides "mock" implementation of database for testing.
package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	kgarbage "github.com/opst/photoshare/pkg/domain/garbage/db"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
)

type GarbageInterface struct {
	Impl struct {
		Pop   func(context.Context, func(domain.Garbage) error) (bool, error)
		Count func(context.Context) (int, error)
	}
	Calls struct {
		Pop   dbmock.CallLog[struct{}]
		Count dbmock.CallLog[struct{}]
	}
}

var _ kgarbage.GarbageInterface = &GarbageInterface{}

func New() *GarbageInterface {
	return &GarbageInterface{}
}

func (m *GarbageInterface) Pop(ctx context.Context, callback func(domain.Garbage) error) (bool, error) {
	m.Calls.Pop = append(m.Calls.Pop, struct{}{})
	if m.Impl.Pop != nil {
		return m.Impl.Pop(ctx, callback)
	}
	return false, errors.New("[MOCK] not implemented")
}

func (m *GarbageInterface) Count(ctx context.Context) (int, error) {
	m.Calls.Count = append(m.Calls.Count, struct{}{})
	if m.Impl.Count != nil {
		return m.Impl.Count(ctx)
	}
	return 0, errors.New("[MOCK] not implemented")
}
