package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
)

type UserInterface struct {
	Impl struct {
		Create       func(context.Context, domain.NewUserSpec, string) (domain.User, error)
		Get          func(context.Context, int64) (domain.User, error)
		GetMany      func(context.Context, []int64) (map[int64]domain.User, error)
		GetByEmail   func(context.Context, string) (domain.User, error)
		PasswordHash func(context.Context, string) (domain.User, string, error)
		SetRole      func(context.Context, int64, domain.Role) (domain.User, error)
		LinkFacebook func(context.Context, int64, string) error
		Delete       func(context.Context, int64) error
	}
	Calls struct {
		Create       dbmock.CallLog[domain.NewUserSpec]
		Get          dbmock.CallLog[int64]
		GetMany      dbmock.CallLog[[]int64]
		GetByEmail   dbmock.CallLog[string]
		PasswordHash dbmock.CallLog[string]
		SetRole      dbmock.CallLog[struct {
			ID   int64
			Role domain.Role
		}]
		LinkFacebook dbmock.CallLog[struct {
			ID         int64
			FacebookID string
		}]
		Delete dbmock.CallLog[int64]
	}
}

var _ kuser.UserInterface = &UserInterface{}

func New() *UserInterface {
	return &UserInterface{}
}

func (m *UserInterface) Create(ctx context.Context, spec domain.NewUserSpec, hash string) (domain.User, error) {
	m.Calls.Create = append(m.Calls.Create, spec)
	if m.Impl.Create != nil {
		return m.Impl.Create(ctx, spec, hash)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Get(ctx context.Context, id int64) (domain.User, error) {
	m.Calls.Get = append(m.Calls.Get, id)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetMany(ctx context.Context, ids []int64) (map[int64]domain.User, error) {
	m.Calls.GetMany = append(m.Calls.GetMany, ids)
	if m.Impl.GetMany != nil {
		return m.Impl.GetMany(ctx, ids)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	m.Calls.GetByEmail = append(m.Calls.GetByEmail, email)
	if m.Impl.GetByEmail != nil {
		return m.Impl.GetByEmail(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) PasswordHash(ctx context.Context, email string) (domain.User, string, error) {
	m.Calls.PasswordHash = append(m.Calls.PasswordHash, email)
	if m.Impl.PasswordHash != nil {
		return m.Impl.PasswordHash(ctx, email)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) SetRole(ctx context.Context, id int64, role domain.Role) (domain.User, error) {
	m.Calls.SetRole = append(m.Calls.SetRole, struct {
		ID   int64
		Role domain.Role
	}{ID: id, Role: role})
	if m.Impl.SetRole != nil {
		return m.Impl.SetRole(ctx, id, role)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) LinkFacebook(ctx context.Context, id int64, facebookID string) error {
	m.Calls.LinkFacebook = append(m.Calls.LinkFacebook, struct {
		ID         int64
		FacebookID string
	}{ID: id, FacebookID: facebookID})
	if m.Impl.LinkFacebook != nil {
		return m.Impl.LinkFacebook(ctx, id, facebookID)
	}
	panic(errors.New("it should not be called"))
}

func (m *UserInterface) Delete(ctx context.Context, id int64) error {
	m.Calls.Delete = append(m.Calls.Delete, id)
	if m.Impl.Delete != nil {
		return m.Impl.Delete(ctx, id)
	}
	panic(errors.New("it should not be called"))
}
