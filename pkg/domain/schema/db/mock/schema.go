package mock

import (
	"context"
	"errors"
)

type MockSchemaInterface struct {
	Impl struct {
		Upgrade func(context.Context) ([]int, error)
		Version func(context.Context) (int, error)
		Latest  func() (int, error)
		Context func(context.Context) (context.Context, context.CancelFunc)
	}
}

func New() *MockSchemaInterface {
	return &MockSchemaInterface{}
}

func (m *MockSchemaInterface) Upgrade(ctx context.Context) ([]int, error) {
	if m.Impl.Upgrade == nil {
		return nil, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Upgrade(ctx)
}

func (m *MockSchemaInterface) Version(ctx context.Context) (int, error) {
	if m.Impl.Version == nil {
		return -1, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Version(ctx)
}

func (m *MockSchemaInterface) Latest() (int, error) {
	if m.Impl.Latest == nil {
		return -1, errors.New("[MOCK] not implemented")
	}
	return m.Impl.Latest()
}

func (m *MockSchemaInterface) Context(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.Impl.Context == nil {
		return ctx, func() {}
	}
	return m.Impl.Context(ctx)
}
