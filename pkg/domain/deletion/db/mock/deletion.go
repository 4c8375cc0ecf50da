package mock

import (
	"context"
	"errors"

	"github.com/opst/photoshare/pkg/domain"
	kdeletion "github.com/opst/photoshare/pkg/domain/deletion/db"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
)

type DeletionInterface struct {
	Impl struct {
		Request func(context.Context, string, string) (domain.DataDeletionRequest, error)
		Get     func(context.Context, string) (domain.DataDeletionRequest, error)
	}
	Calls struct {
		Request dbmock.CallLog[struct {
			FacebookUserID   string
			ConfirmationCode string
		}]
		Get dbmock.CallLog[string]
	}
}

var _ kdeletion.DeletionInterface = &DeletionInterface{}

func New() *DeletionInterface {
	return &DeletionInterface{}
}

func (m *DeletionInterface) Request(ctx context.Context, facebookUserID string, confirmationCode string) (domain.DataDeletionRequest, error) {
	m.Calls.Request = append(m.Calls.Request, struct {
		FacebookUserID   string
		ConfirmationCode string
	}{FacebookUserID: facebookUserID, ConfirmationCode: confirmationCode})
	if m.Impl.Request != nil {
		return m.Impl.Request(ctx, facebookUserID, confirmationCode)
	}
	panic(errors.New("it should not be called"))
}

func (m *DeletionInterface) Get(ctx context.Context, confirmationCode string) (domain.DataDeletionRequest, error) {
	m.Calls.Get = append(m.Calls.Get, confirmationCode)
	if m.Impl.Get != nil {
		return m.Impl.Get(ctx, confirmationCode)
	}
	panic(errors.New("it should not be called"))
}

