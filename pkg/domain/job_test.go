package domain_test

import (
	"errors"
	"testing"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

func TestRetryDelay(t *testing.T) {
	for attempts, want := range map[int]time.Duration{
		0:  30 * time.Second,
		1:  30 * time.Second,
		2:  time.Minute,
		3:  2 * time.Minute,
		5:  8 * time.Minute,
		20: 6 * time.Hour,
	} {
		if got := domain.RetryDelay(attempts); got != want {
			t.Errorf("RetryDelay(%d) = %s, want %s", attempts, got, want)
		}
	}
}

func TestGivesUp(t *testing.T) {
	for attempts := 0; attempts < domain.MaxJobAttempts; attempts++ {
		if domain.GivesUp(attempts) {
			t.Errorf("gave up after %d attempts", attempts)
		}
	}
	if !domain.GivesUp(domain.MaxJobAttempts) {
		t.Errorf("did not give up after %d attempts", domain.MaxJobAttempts)
	}
}

func TestAsJobKind(t *testing.T) {
	for _, k := range []domain.JobKind{
		domain.JobDerivatives, domain.JobRekognition, domain.JobFlickrSync, domain.JobRelatedTags,
	} {
		if got, err := domain.AsJobKind(string(k)); err != nil || got != k {
			t.Errorf("AsJobKind(%s) = (%s, %v)", k, got, err)
		}
	}
	if _, err := domain.AsJobKind("mining"); !errors.Is(err, domerr.ErrInvalidArgument) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAsLoopType(t *testing.T) {
	for _, l := range []domain.LoopType{
		domain.DerivativesLoop, domain.RekognitionLoop, domain.FlickrSyncLoop,
		domain.ClaimVerificationLoop, domain.RelatedTagsLoop, domain.GarbageCollectionLoop,
	} {
		if got, err := domain.AsLoopType(l.String()); err != nil || got != l {
			t.Errorf("AsLoopType(%s) = (%s, %v)", l, got, err)
		}
	}
	if _, err := domain.AsLoopType("housekeeping"); !errors.Is(err, domain.ErrUnknownLoopType) {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestLoopType_JobKind(t *testing.T) {
	for loop, want := range map[domain.LoopType]domain.JobKind{
		domain.DerivativesLoop: domain.JobDerivatives,
		domain.RekognitionLoop: domain.JobRekognition,
		domain.FlickrSyncLoop:  domain.JobFlickrSync,
		domain.RelatedTagsLoop: domain.JobRelatedTags,
	} {
		if got, ok := loop.JobKind(); !ok || got != want {
			t.Errorf("%s.JobKind() = (%s, %v)", loop, got, ok)
		}
	}
	for _, loop := range []domain.LoopType{domain.ClaimVerificationLoop, domain.GarbageCollectionLoop} {
		if _, ok := loop.JobKind(); ok {
			t.Errorf("%s consumes jobs", loop)
		}
	}
}
