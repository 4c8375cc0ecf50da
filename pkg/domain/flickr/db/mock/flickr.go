package mock

import (
	"context"
	"errors"
	"time"

	"github.com/opst/photoshare/pkg/domain"
	kflickr "github.com/opst/photoshare/pkg/domain/flickr/db"
	dbmock "github.com/opst/photoshare/pkg/domain/internal/db/mock"
)

type FlickrInterface struct {
	Impl struct {
		UpsertUser           func(context.Context, domain.FlickrUser) (domain.FlickrUser, error)
		GetUser              func(context.Context, string) (domain.FlickrUser, error)
		StaleUsers           func(context.Context, time.Time, int) ([]domain.FlickrUser, error)
		MarkSynced           func(context.Context, string, time.Time) error
		CreateClaim          func(context.Context, int64, string, domain.ClaimMethod, string) (domain.FlickrUserClaim, error)
		GetClaim             func(context.Context, int64) (domain.FlickrUserClaim, error)
		Claims               func(context.Context, *domain.ClaimStatus, domain.Page) (domain.Paginated[domain.FlickrUserClaim], error)
		ClaimsOf             func(context.Context, int64) ([]domain.FlickrUserClaim, error)
		Decide               func(context.Context, int64, domain.ClaimDecision) (domain.FlickrUserClaim, error)
		PickPendingAutomatic func(context.Context, domain.ClaimCursor, func(domain.FlickrUserClaim) (domain.ClaimDecision, error)) (domain.ClaimCursor, bool, error)
	}
	Calls struct {
		UpsertUser dbmock.CallLog[domain.FlickrUser]
		GetUser    dbmock.CallLog[string]
		StaleUsers dbmock.CallLog[struct {
			Before time.Time
			Limit  int
		}]
		MarkSynced dbmock.CallLog[struct {
			NSID string
			At   time.Time
		}]
		CreateClaim dbmock.CallLog[struct {
			UserID int64
			NSID   string
			Method domain.ClaimMethod
			Reason string
		}]
		GetClaim dbmock.CallLog[int64]
		Claims   dbmock.CallLog[struct {
			Status *domain.ClaimStatus
			Page   domain.Page
		}]
		ClaimsOf dbmock.CallLog[int64]
		Decide   dbmock.CallLog[struct {
			ID       int64
			Decision domain.ClaimDecision
		}]
		PickPendingAutomatic dbmock.CallLog[domain.ClaimCursor]
	}
}

var _ kflickr.FlickrInterface = &FlickrInterface{}

func New() *FlickrInterface {
	return &FlickrInterface{}
}

func (m *FlickrInterface) UpsertUser(ctx context.Context, user domain.FlickrUser) (domain.FlickrUser, error) {
	m.Calls.UpsertUser = append(m.Calls.UpsertUser, user)
	if m.Impl.UpsertUser != nil {
		return m.Impl.UpsertUser(ctx, user)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) GetUser(ctx context.Context, nsid string) (domain.FlickrUser, error) {
	m.Calls.GetUser = append(m.Calls.GetUser, nsid)
	if m.Impl.GetUser != nil {
		return m.Impl.GetUser(ctx, nsid)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) StaleUsers(ctx context.Context, before time.Time, limit int) ([]domain.FlickrUser, error) {
	m.Calls.StaleUsers = append(m.Calls.StaleUsers, struct {
		Before time.Time
		Limit  int
	}{Before: before, Limit: limit})
	if m.Impl.StaleUsers != nil {
		return m.Impl.StaleUsers(ctx, before, limit)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) MarkSynced(ctx context.Context, nsid string, at time.Time) error {
	m.Calls.MarkSynced = append(m.Calls.MarkSynced, struct {
		NSID string
		At   time.Time
	}{NSID: nsid, At: at})
	if m.Impl.MarkSynced != nil {
		return m.Impl.MarkSynced(ctx, nsid, at)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) CreateClaim(ctx context.Context, userID int64, nsid string, method domain.ClaimMethod, reason string) (domain.FlickrUserClaim, error) {
	m.Calls.CreateClaim = append(m.Calls.CreateClaim, struct {
		UserID int64
		NSID   string
		Method domain.ClaimMethod
		Reason string
	}{UserID: userID, NSID: nsid, Method: method, Reason: reason})
	if m.Impl.CreateClaim != nil {
		return m.Impl.CreateClaim(ctx, userID, nsid, method, reason)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) GetClaim(ctx context.Context, id int64) (domain.FlickrUserClaim, error) {
	m.Calls.GetClaim = append(m.Calls.GetClaim, id)
	if m.Impl.GetClaim != nil {
		return m.Impl.GetClaim(ctx, id)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) Claims(ctx context.Context, status *domain.ClaimStatus, page domain.Page) (domain.Paginated[domain.FlickrUserClaim], error) {
	m.Calls.Claims = append(m.Calls.Claims, struct {
		Status *domain.ClaimStatus
		Page   domain.Page
	}{Status: status, Page: page})
	if m.Impl.Claims != nil {
		return m.Impl.Claims(ctx, status, page)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) ClaimsOf(ctx context.Context, userID int64) ([]domain.FlickrUserClaim, error) {
	m.Calls.ClaimsOf = append(m.Calls.ClaimsOf, userID)
	if m.Impl.ClaimsOf != nil {
		return m.Impl.ClaimsOf(ctx, userID)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) Decide(ctx context.Context, id int64, decision domain.ClaimDecision) (domain.FlickrUserClaim, error) {
	m.Calls.Decide = append(m.Calls.Decide, struct {
		ID       int64
		Decision domain.ClaimDecision
	}{ID: id, Decision: decision})
	if m.Impl.Decide != nil {
		return m.Impl.Decide(ctx, id, decision)
	}
	panic(errors.New("it should not be called"))
}

func (m *FlickrInterface) PickPendingAutomatic(ctx context.Context, cursor domain.ClaimCursor, f func(domain.FlickrUserClaim) (domain.ClaimDecision, error)) (domain.ClaimCursor, bool, error) {
	m.Calls.PickPendingAutomatic = append(m.Calls.PickPendingAutomatic, cursor)
	if m.Impl.PickPendingAutomatic != nil {
		return m.Impl.PickPendingAutomatic(ctx, cursor, f)
	}
	panic(errors.New("it should not be called"))
}

