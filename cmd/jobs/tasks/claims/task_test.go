package claims_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/opst/photoshare/cmd/jobs/tasks/claims"
	"github.com/opst/photoshare/pkg/conn/flickr"
	flickrmock "github.com/opst/photoshare/pkg/conn/flickr/mock"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	flickrdbmock "github.com/opst/photoshare/pkg/domain/flickr/db/mock"
)

func TestClaimVerificationTask(t *testing.T) {
	now := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	fakeErr := errors.New("fake error")

	claim := domain.FlickrUserClaim{
		ID: 5, UserID: 1, NSID: "12345@N00",
		Method: domain.ClaimAutomatic, Status: domain.ClaimPending,
		VerificationCode: "photoshare-0123456789abcdef",
		CreatedAt:        now.Add(-24 * time.Hour),
	}
	old := claim
	old.CreatedAt = now.Add(-claims.VerificationPeriod)

	type When struct {
		// nil means "no claim is pending"
		claim       *domain.FlickrUserClaim
		description string
		personErr   error
		decideErr   error
	}
	type Then struct {
		picked   bool
		err      error
		decision *domain.ClaimDecision
		cursor   domain.ClaimCursor
		observed []domain.ClaimStatus
	}

	theory := func(when When, then Then) func(*testing.T) {
		return func(t *testing.T) {
			var decision *domain.ClaimDecision
			db := flickrdbmock.New()
			db.Impl.PickPendingAutomatic = func(
				ctx context.Context, cursor domain.ClaimCursor,
				f func(domain.FlickrUserClaim) (domain.ClaimDecision, error),
			) (domain.ClaimCursor, bool, error) {
				if when.claim == nil {
					return cursor, false, nil
				}
				next := domain.ClaimCursor{Head: when.claim.ID, Debounce: cursor.Debounce}
				d, err := f(*when.claim)
				if err != nil {
					return next, true, err
				}
				decision = &d
				if d.Status != domain.ClaimPending && when.decideErr != nil {
					return next, true, when.decideErr
				}
				return next, true, nil
			}

			client := flickrmock.New()
			client.Impl.Person = func(ctx context.Context, nsid string) (domain.FlickrUser, error) {
				if when.personErr != nil {
					return domain.FlickrUser{}, when.personErr
				}
				return domain.FlickrUser{NSID: nsid, Description: when.description}, nil
			}

			observed := []domain.ClaimStatus{}
			testee := claims.Task(
				db, client,
				func(s domain.ClaimStatus) { observed = append(observed, s) },
				nil, func() time.Time { return now },
			)
			cursor, picked, err := testee(context.Background(), claims.Seed())

			if picked != then.picked || !errors.Is(err, then.err) {
				t.Errorf("(picked, err) = (%v, %v), want (%v, %v)", picked, err, then.picked, then.err)
			}
			if diff := cmp.Diff(then.decision, decision); diff != "" {
				t.Errorf("decision (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(then.cursor, cursor); diff != "" {
				t.Errorf("cursor (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(then.observed, observed); diff != "" {
				t.Errorf("observed (-want +got):\n%s", diff)
			}
		}
	}

	picked := domain.ClaimCursor{Head: 5, Debounce: claims.CheckInterval}

	t.Run("a claim with the code in the profile is approved", theory(
		When{claim: &claim, description: "I am alice. photoshare-0123456789abcdef"},
		Then{
			picked:   true,
			decision: &domain.ClaimDecision{Status: domain.ClaimApproved},
			cursor:   picked,
			observed: []domain.ClaimStatus{domain.ClaimApproved},
		},
	))

	t.Run("a recent claim without the code stays pending", theory(
		When{claim: &claim, description: "I am alice."},
		Then{
			picked:   true,
			decision: &domain.ClaimDecision{Status: domain.ClaimPending},
			cursor:   picked,
			observed: []domain.ClaimStatus{},
		},
	))

	t.Run("an old claim without the code is denied", theory(
		When{claim: &old, description: "I am alice."},
		Then{
			picked:   true,
			decision: &domain.ClaimDecision{Status: domain.ClaimDenied, Reason: claims.ReasonCodeNotFound},
			cursor:   picked,
			observed: []domain.ClaimStatus{domain.ClaimDenied},
		},
	))

	t.Run("an old claim on a user unknown to Flickr is denied", theory(
		When{claim: &old, personErr: flickr.ErrUserNotFound},
		Then{
			picked:   true,
			decision: &domain.ClaimDecision{Status: domain.ClaimDenied, Reason: claims.ReasonCodeNotFound},
			cursor:   picked,
			observed: []domain.ClaimStatus{domain.ClaimDenied},
		},
	))

	t.Run("when Flickr fails, it waits for the next cycle", theory(
		When{claim: &claim, personErr: fakeErr},
		Then{
			picked:   false,
			cursor:   picked,
			observed: []domain.ClaimStatus{},
		},
	))

	t.Run("a claim settled meanwhile is skipped", theory(
		When{
			claim:       &claim,
			description: "photoshare-0123456789abcdef",
			decideErr:   fmt.Errorf("%w: claim 5 is denied, cannot be approved", domerr.ErrConflict),
		},
		Then{
			picked:   true,
			decision: &domain.ClaimDecision{Status: domain.ClaimApproved},
			cursor:   picked,
			observed: []domain.ClaimStatus{},
		},
	))

	t.Run("when deciding fails, the error is returned", theory(
		When{claim: &claim, description: "photoshare-0123456789abcdef", decideErr: fakeErr},
		Then{
			picked:   true,
			err:      fakeErr,
			decision: &domain.ClaimDecision{Status: domain.ClaimApproved},
			cursor:   claims.Seed(),
			observed: []domain.ClaimStatus{},
		},
	))

	t.Run("when no claim is pending, it does nothing", theory(
		When{},
		Then{
			picked:   false,
			cursor:   claims.Seed(),
			observed: []domain.ClaimStatus{},
		},
	))
}
