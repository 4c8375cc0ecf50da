package claims

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	"go.uber.org/zap"
)

const (
	// Claims not verified in this period are denied.
	VerificationPeriod = 7 * 24 * time.Hour

	// A claim is checked at most once in this interval.
	CheckInterval = 10 * time.Minute

	ReasonCodeNotFound = "verification code not found"
)

// Seed is the initial cursor.
func Seed() domain.ClaimCursor {
	return domain.ClaimCursor{Debounce: CheckInterval}
}

type Observer func(status domain.ClaimStatus)

// Task verifies pending automatic claims on Flickr identities.
//
// A claim is approved when the Flickr profile description contains its code,
// and denied after VerificationPeriod.
func Task(
	claims kflickr.FlickrInterface,
	client flickr.Client,
	observe Observer,
	logger *zap.Logger,
	now func() time.Time,
) recurring.Task[domain.ClaimCursor] {
	if now == nil {
		now = time.Now
	}
	if observe == nil {
		observe = func(domain.ClaimStatus) {}
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(ctx context.Context, cursor domain.ClaimCursor) (domain.ClaimCursor, bool, error) {
		var lookupErr error
		var decided domain.ClaimDecision
		next, picked, err := claims.PickPendingAutomatic(
			ctx, cursor,
			func(c domain.FlickrUserClaim) (domain.ClaimDecision, error) {
				d, err := decide(ctx, client, c, now())
				if err != nil {
					lookupErr = err
					return d, err
				}
				decided = d
				return d, nil
			},
		)
		if lookupErr != nil && errors.Is(err, lookupErr) {
			// Flickr may be unavailable. Wait for the next cycle.
			logger.Warn("verifying claim failed", zap.Int64("after", cursor.Head), zap.Error(err))
			return next, false, nil
		}
		if errors.Is(err, domerr.ErrConflict) {
			// decided by an admin, or the identity is claimed by another, meanwhile.
			logger.Info("claim is settled already", zap.Int64("claim", next.Head), zap.Error(err))
			return next, picked, nil
		}
		if err != nil {
			return cursor, picked, err
		}
		if picked && decided.Status != domain.ClaimPending {
			observe(decided.Status)
			logger.Info(
				"claim decided",
				zap.Int64("claim", next.Head), zap.String("status", string(decided.Status)),
			)
		}
		return next, picked, nil
	}
}

func decide(ctx context.Context, client flickr.Client, c domain.FlickrUserClaim, now time.Time) (domain.ClaimDecision, error) {
	profile, err := client.Person(ctx, c.NSID)
	if err != nil && !errors.Is(err, flickr.ErrUserNotFound) {
		return domain.ClaimDecision{Status: domain.ClaimPending}, err
	}
	if err == nil && c.Verify(profile.Description) {
		return domain.ClaimDecision{Status: domain.ClaimApproved}, nil
	}
	if VerificationPeriod <= now.Sub(c.CreatedAt) {
		return domain.ClaimDecision{Status: domain.ClaimDenied, Reason: ReasonCodeNotFound}, nil
	}
	return domain.ClaimDecision{Status: domain.ClaimPending}, nil
}
