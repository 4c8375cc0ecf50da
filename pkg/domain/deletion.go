package domain

import (
	"fmt"
	"time"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type DeletionStatus string

const (
	// the account is found and removed.
	DeletionCompleted DeletionStatus = "completed"

	// no accounts are linked with the Facebook user.
	DeletionNotFound DeletionStatus = "not_found"
)

func AsDeletionStatus(s string) (DeletionStatus, error) {
	switch st := DeletionStatus(s); st {
	case DeletionCompleted, DeletionNotFound:
		return st, nil
	default:
		return st, fmt.Errorf("%w: unknown deletion status: %s", domerr.ErrInvalidArgument, s)
	}
}

// DataDeletionRequest records a Facebook data deletion callback.
type DataDeletionRequest struct {
	ConfirmationCode string
	FacebookUserID   string
	Status           DeletionStatus
	RequestedAt      time.Time
}
