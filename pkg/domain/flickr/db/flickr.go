package db

import (
	"context"
	"time"

	"github.com/opst/photoshare/pkg/domain"
)

type FlickrInterface interface {
	// UpsertUser records the profile of the Flickr user.
	//
	// ClaimedBy is not changed by this method.
	UpsertUser(ctx context.Context, user domain.FlickrUser) (domain.FlickrUser, error)

	GetUser(ctx context.Context, nsid string) (domain.FlickrUser, error)

	// StaleUsers returns Flickr users not synced since before.
	StaleUsers(ctx context.Context, before time.Time, limit int) ([]domain.FlickrUser, error)

	MarkSynced(ctx context.Context, nsid string, at time.Time) error

	// CreateClaim creates a pending claim.
	//
	// Automatic claims get a new verification code.
	//
	// # Returns
	//
	// - domain.FlickrUserClaim: created claim
	//
	// - error: ErrConflict when the identity is claimed by another user,
	// or the user has a pending claim on it already.
	// ErrMissing when the Flickr user is unknown.
	CreateClaim(ctx context.Context, userID int64, nsid string, method domain.ClaimMethod, reason string) (domain.FlickrUserClaim, error)

	GetClaim(ctx context.Context, id int64) (domain.FlickrUserClaim, error)

	// Claims lists claims, newest first. When status is nil, claims in every status are listed.
	Claims(ctx context.Context, status *domain.ClaimStatus, page domain.Page) (domain.Paginated[domain.FlickrUserClaim], error)

	// ClaimsOf lists claims made by the user, newest first.
	ClaimsOf(ctx context.Context, userID int64) ([]domain.FlickrUserClaim, error)

	// Decide approves or denies a pending claim.
	//
	// Approval makes the claimant the owner of the identity,
	// and denies other pending claims on the identity.
	Decide(ctx context.Context, id int64, decision domain.ClaimDecision) (domain.FlickrUserClaim, error)

	// PickPendingAutomatic picks a pending automatic claim not checked in cursor.Debounce,
	// and decides it as f says.
	//
	// The claim is marked as checked before f runs, and no lock is held while f runs.
	// So a claim f fails on is picked again after cursor.Debounce.
	//
	// # Returns
	//
	// - domain.ClaimCursor: cursor for next call.
	//
	// - bool: whether a claim is picked.
	//
	// - error
	PickPendingAutomatic(ctx context.Context, cursor domain.ClaimCursor, f func(domain.FlickrUserClaim) (domain.ClaimDecision, error)) (domain.ClaimCursor, bool, error)
}
