package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

// FlickrUser is a (legacy) Flickr identity, known from imported photos.
type FlickrUser struct {
	NSID        string
	Username    string
	RealName    string
	Description string
	ProfileURL  string
	IconURL     string

	// user who owns this identity, after a claim is approved.
	ClaimedBy *int64
	SyncedAt  *time.Time
}

type ClaimMethod string

const (
	// ClaimAutomatic is verified by the code in Flickr profile description.
	ClaimAutomatic ClaimMethod = "automatic"

	// ClaimManual is decided by admins.
	ClaimManual ClaimMethod = "manual"
)

func AsClaimMethod(s string) (ClaimMethod, error) {
	switch m := ClaimMethod(s); m {
	case ClaimAutomatic, ClaimManual:
		return m, nil
	default:
		return m, fmt.Errorf("%w: unknown claim method: %s", domerr.ErrInvalidArgument, s)
	}
}

type ClaimStatus string

const (
	ClaimPending  ClaimStatus = "pending"
	ClaimApproved ClaimStatus = "approved"
	ClaimDenied   ClaimStatus = "denied"
)

func AsClaimStatus(s string) (ClaimStatus, error) {
	switch st := ClaimStatus(s); st {
	case ClaimPending, ClaimApproved, ClaimDenied:
		return st, nil
	default:
		return st, fmt.Errorf("%w: unknown claim status: %s", domerr.ErrInvalidArgument, s)
	}
}

type FlickrUserClaim struct {
	ID               int64
	UserID           int64
	NSID             string
	Method           ClaimMethod
	Status           ClaimStatus
	VerificationCode string
	Reason           string
	CreatedAt        time.Time
	DecidedAt        *time.Time
}

// CanTransitTo tells the claim can be decided into status.
//
// Only pending claims can be decided, and only into approved or denied.
func (c *FlickrUserClaim) CanTransitTo(status ClaimStatus) bool {
	return c.Status == ClaimPending && (status == ClaimApproved || status == ClaimDenied)
}

// Verify tells the Flickr profile description proves the claim.
func (c *FlickrUserClaim) Verify(profileDescription string) bool {
	return c.VerificationCode != "" && strings.Contains(profileDescription, c.VerificationCode)
}

// ClaimCursor remembers where PickPendingAutomatic reached.
type ClaimCursor struct {
	// id of claim picked last time
	Head int64

	// interval to pick same claim again
	Debounce time.Duration
}

// ClaimDecision is an outcome of a verification attempt.
//
// Status ClaimPending means "not decided yet".
type ClaimDecision struct {
	Status ClaimStatus
	Reason string
}

// NewVerificationCode generates a code to be put into a Flickr profile.
func NewVerificationCode() (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return "photoshare-" + hex.EncodeToString(b), nil
}
