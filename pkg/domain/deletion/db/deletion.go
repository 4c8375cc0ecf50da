package db

import (
	"context"

	"github.com/opst/photoshare/pkg/domain"
)

type DeletionInterface interface {
	// Request deletes the account linked with the Facebook user, and records the request.
	//
	// When no accounts are linked, the request is recorded as DeletionNotFound.
	Request(ctx context.Context, facebookUserID string, confirmationCode string) (domain.DataDeletionRequest, error)

	// Get returns the request recorded with the confirmation code.
	Get(ctx context.Context, confirmationCode string) (domain.DataDeletionRequest, error)
}
