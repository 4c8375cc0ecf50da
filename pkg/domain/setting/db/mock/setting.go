package mock

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
)

type SettingInterface struct {
	Impl struct {
		Get func(context.Context, string) (domain.Setting, error)
		All func(context.Context) (map[string]domain.Setting, error)
		Set func(context.Context, string, json.RawMessage) (domain.Setting, error)
	}
	Calls struct {
		Get dbmock.CallLog[string]
		All dbmock.CallLog[struct{}]
		Set dbmock.CallLog[struct {
			Key   string
			Value json.RawMessage
		}]
	}
}

var _ ksetting.SettingInterface = &SettingInterface{}

func New() *SettingInterface {
	return &SettingInterface{}
}

func (m *SettingInterface) Get(ctx context.Context, key string) (domain.Setting, error) {
	m.Calls.Get = append(m.Calls.Get, key)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, key)
	}
	panic(errors.New("it should not be called"))
}

func (m *SettingInterface) All(ctx context.Context) (map[string]domain.Setting, error) {
	m.Calls.All = append(m.Calls.All, struct{}{})
	if m.Impl.All != nil {
		return m.Impl.All(ctx)
	}
	panic(errors.New("it should not be called"))
}

func (m *SettingInterface) Set(ctx context.Context, key string, value json.RawMessage) (domain.Setting, error) {
	m.Calls.Set = append(m.Calls.Set, struct {
		Key   string
		Value json.RawMessage
	}{Key: key, Value: value})
	if m.Impl.Set != nil {
		return m.Impl.Set(ctx, key, value)
	}
	panic(errors.New("it should not be called"))
}

