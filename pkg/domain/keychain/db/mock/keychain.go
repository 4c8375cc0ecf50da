package mock

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	kdbkeychain "github.com/opst/photoshare/pkg/domain/keychain/db"
)

type KeychainInterface struct {
	Impl struct {
		Keys    func(context.Context, string) ([]domain.SigningKey, error)
		Get     func(context.Context, string, string) (domain.SigningKey, error)
		Current func(context.Context, string, time.Duration, func() (domain.SigningKey, error)) (domain.SigningKey, error)
	}
	Calls struct {
		Keys dbmock.CallLog[string]
		Get  dbmock.CallLog[struct {
			Name string
			KID  string
		}]
		Current dbmock.CallLog[struct {
			Name   string
			MinTTL time.Duration
		}]
	}
}

var _ kdbkeychain.KeychainInterface = &KeychainInterface{}

func New() *KeychainInterface {
	return &KeychainInterface{}
}

func (m *KeychainInterface) Keys(ctx context.Context, name string) ([]domain.SigningKey, error) {
	m.Calls.Keys = append(m.Calls.Keys, name)
	if m.Impl.Keys != nil {
		return m.Impl.Keys(ctx, name)
	}
	panic(errors.New("it should not be called"))
}

func (m *KeychainInterface) Get(ctx context.Context, name string, kid string) (domain.SigningKey, error) {
	m.Calls.Get = append(m.Calls.Get, struct {
		Name string
		KID  string
	}{Name: name, KID: kid})
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, name, kid)
	}
	panic(errors.New("it should not be called"))
}

func (m *KeychainInterface) Current(ctx context.Context, name string, minTTL time.Duration, issue func() (domain.SigningKey, error)) (domain.SigningKey, error) {
	m.Calls.Current = append(m.Calls.Current, struct {
		Name   string
		MinTTL time.Duration
	}{Name: name, MinTTL: minTTL})
	if m.Impl.Current != nil {
		return m.Impl.Current(ctx, name, minTTL, issue)
	}
	panic(errors.New("it should not be called"))
}

