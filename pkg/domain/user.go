package domain

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

type Role string

const (
	// RoleGuest is not stored. It is the role of unauthenticated actor.
	RoleGuest Role = "guest"
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

func (r Role) String() string {
	return string(r)
}

func AsRole(s string) (Role, error) {
	switch r := Role(s); r {
	case RoleUser, RoleAdmin:
		return r, nil
	default:
		return Role(s), fmt.Errorf("%w: unknown role: %s", domerr.ErrInvalidArgument, s)
	}
}

type User struct {
	ID        int64
	Email     string
	Name      string
	Role      Role
	CreatedAt time.Time

	// id of Facebook user linked with this user, if any.
	FacebookID *string
}

// RoleOf returns role of the actor. nil actor is a guest.
func RoleOf(u *User) Role {
	if u == nil {
		return RoleGuest
	}
	return u.Role
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// Is tells the actor u is the user identified by id.
func (u *User) Is(id int64) bool {
	return u != nil && u.ID == id
}

// NewUserSpec is a request to register a new user.
type NewUserSpec struct {
	Email string
	Name  string
}

// Normalize validates email and name, and returns them normalized.
func (s NewUserSpec) Normalize() (NewUserSpec, error) {
	addr, err := mail.ParseAddress(strings.TrimSpace(s.Email))
	if err != nil {
		return s, fmt.Errorf("%w: email: %s", domerr.ErrInvalidArgument, err)
	}
	name := strings.TrimSpace(s.Name)
	if name == "" || 64 < utf8.RuneCountInString(name) {
		return s, fmt.Errorf("%w: name should have 1-64 characters", domerr.ErrInvalidArgument)
	}
	return NewUserSpec{
		Email: strings.ToLower(addr.Address),
		Name:  name,
	}, nil
}
