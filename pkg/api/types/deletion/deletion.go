// Package deletion is the shape of responses for Facebook data deletion callbacks.
package deletion

import (
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

// Accepted is the response Facebook expects for a data deletion callback.
type Accepted struct {
	// URL where the user can check the status of the deletion.
	URL string `json:"url"`

	ConfirmationCode string `json:"confirmation_code"`
}

type Status struct {
	ConfirmationCode string    `json:"confirmationCode"`
	Status           string    `json:"status"`
	RequestedAt      time.Time `json:"requestedAt"`
}

func ComposeStatus(r domain.DataDeletionRequest) Status {
	return Status{
		ConfirmationCode: r.ConfirmationCode,
		Status:           string(r.Status),
		RequestedAt:      r.RequestedAt,
	}
}
