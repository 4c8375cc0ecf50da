package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/opst/photoshare/pkg/domain"
	domerr "github.com/opst/photoshare/pkg/domain/errors"
	kuser "github.com/opst/photoshare/pkg/domain/user/db"
)

// CookieName is the name of the cookie carrying a session token.
const CookieName = "photoshare_session"

type actorKey struct{}

// WithActor returns a context carrying the actor.
func WithActor(ctx context.Context, actor *domain.User) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// Actor returns the actor in the context. nil means a guest.
func Actor(ctx context.Context) *domain.User {
	u, _ := ctx.Value(actorKey{}).(*domain.User)
	return u
}

// TokenOf extracts a session token from the request.
//
// "Authorization: Bearer" header has priority over the cookie.
func TokenOf(c echo.Context) string {
	if h := c.Request().Header.Get(echo.HeaderAuthorization); h != "" {
		scheme, tok, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(tok)
		}
	}
	if ck, err := c.Cookie(CookieName); err == nil {
		return ck.Value
	}
	return ""
}

// Middleware resolves the actor of requests.
//
// Requests without valid token are handled as from a guest.
// Roles are read from users, not from tokens, so that changes take effect at once.
func Middleware(v Verifier, users kuser.UserInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tok := TokenOf(c)
			if tok == "" {
				return next(c)
			}

			req := c.Request()
			ctx := req.Context()

			claims, err := v.Verify(ctx, tok)
			if err != nil {
				if !errors.Is(err, ErrInvalidToken) {
					c.Logger().Errorf("auth: verifying token: %s", err)
				} else {
					c.Logger().Debugf("auth: %s", err)
				}
				return next(c)
			}

			id, _ := claims.UserID()
			u, err := users.Get(ctx, id)
			if err != nil {
				if !errors.Is(err, domerr.ErrMissing) {
					c.Logger().Errorf("auth: loading user %d: %s", id, err)
				}
				return next(c)
			}

			c.SetRequest(req.WithContext(WithActor(ctx, &u)))
			return next(c)
		}
	}
}
