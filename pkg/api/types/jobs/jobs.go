// Package jobs is the shape of background jobs sent to lifecycle hooks.
package jobs

import (
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

type Detail struct {
	ID       int64     `json:"id"`
	Kind     string    `json:"kind"`
	Subject  string    `json:"subject"`
	Attempts int       `json:"attempts"`
	RunAfter time.Time `json:"runAfter"`
}

func ComposeDetail(j domain.Job) Detail {
	return Detail{
		ID:       j.ID,
		Kind:     string(j.Kind),
		Subject:  j.Subject,
		Attempts: j.Attempts,
		RunAfter: j.RunAfter,
	}
}
