// Package graphql serves the photoshare API as GraphQL.
//
// Resolvers check policies for every record they touch.
// Errors from the domain layer are reported with an extension code:
// NOT_FOUND, FORBIDDEN, UNAUTHENTICATED, INVALID, CONFLICT or INTERNAL.
package graphql

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/opst/photoshare/pkg/conn/events"
	"github.com/opst/photoshare/pkg/conn/mail"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kdb "github.com/opst/photoshare/pkg/domain/photoshare/db"
)

//go:embed schema.graphql
var schemaSDL string

// Issuer issues session tokens.
type Issuer interface {
	Issue(ctx context.Context, u domain.User) (string, time.Time, error)
}

// Logger is a subset of echo.Logger.
type Logger interface {
	Warnf(format string, args ...any)
	Errorf(format string, args ...any)
}

type Deps struct {
	DB       kdb.Database
	Sessions Issuer
	Events   events.Publisher
	Mail     mail.Sender

	// base of URLs in API responses, like images and album links.
	PublicURL *url.URL

	// app secret verifying Facebook signed requests.
	// linkFacebook is rejected when it is empty.
	FacebookAppSecret string

	Log Logger
}

// Resolver is the root resolver, for both of Query and Mutation.
type Resolver struct {
	Deps
}

// New parses the schema upon deps.
func New(deps Deps) (*graphql.Schema, error) {
	if deps.Events == nil {
		deps.Events = events.Noop()
	}
	if deps.Mail == nil {
		deps.Mail = mail.Noop()
	}
	return graphql.ParseSchema(
		schemaSDL, &Resolver{Deps: deps},
		graphql.MaxDepth(12),
	)
}

// publish publishes an event. Failures are logged, not returned:
// the change has been committed already.
func (r *Resolver) publish(ctx context.Context, ev events.Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}
	if err := r.Events.Publish(ctx, ev); err != nil {
		r.Log.Warnf("graphql: publishing %s of %d: %s", ev.Type, ev.Subject, err)
	}
}

const (
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeInvalid         = "INVALID"
	CodeConflict        = "CONFLICT"
	CodeInternal        = "INTERNAL"
)

// Code tells the extension code for the error.
func Code(err error) string {
	switch {
	case errors.Is(err, domerr.ErrMissing):
		return CodeNotFound
	case errors.Is(err, domerr.ErrForbidden):
		return CodeForbidden
	case errors.Is(err, domerr.ErrUnauthenticated):
		return CodeUnauthenticated
	case errors.Is(err, domerr.ErrInvalidArgument):
		return CodeInvalid
	case errors.Is(err, domerr.ErrConflict):
		return CodeConflict
	default:
		return CodeInternal
	}
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler serves GraphQL over HTTP POST with JSON.
type Handler struct {
	Schema *graphql.Schema
	Log    Logger
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	req := request{}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "request body should be JSON", http.StatusBadRequest)
		return
	}

	resp := h.Schema.Exec(r.Context(), req.Query, req.OperationName, req.Variables)
	h.annotate(resp.Errors)

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.Log.Errorf("graphql: writing response: %s", err)
	}
}

// annotate sets extension codes on errors from resolvers.
//
// Messages of internal errors are hidden from clients.
func (h *Handler) annotate(errs []*gqlerrors.QueryError) {
	for _, qe := range errs {
		if qe.ResolverError == nil {
			continue
		}
		code := Code(qe.ResolverError)
		if qe.Extensions == nil {
			qe.Extensions = map[string]any{}
		}
		qe.Extensions["code"] = code
		if code == CodeInternal {
			h.Log.Errorf("graphql: %v: %s", qe.Path, qe.ResolverError)
			qe.Message = "internal error"
		}
	}
}
