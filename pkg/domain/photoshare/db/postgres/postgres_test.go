package postgres_test

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kpg "github.com/opst/photoshare/pkg/domain/photoshare/db/postgres"
	xe "github.com/opst/photoshare/pkg/errors"
	"github.com/opst/photoshare/pkg/utils/retry"
)

func TestRetriable(t *testing.T) {
	for name, testcase := range map[string]struct {
		err  error
		want bool
	}{
		"network error": {
			err:  xe.Wrap(&net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}),
			want: true,
		},
		"database is starting up": {
			err:  fmt.Errorf("connect: %w", &pgconn.PgError{Code: pgerrcode.CannotConnectNow}),
			want: true,
		},
		"too many connections": {
			err:  &pgconn.PgError{Code: pgerrcode.TooManyConnections},
			want: true,
		},
		"authentication failure": {
			err:  &pgconn.PgError{Code: pgerrcode.InvalidPassword},
			want: false,
		},
		"other error": {
			err:  errors.New("invalid url"),
			want: false,
		},
	} {
		t.Run(name, func(t *testing.T) {
			if got := kpg.Retriable(testcase.err); got != testcase.want {
				t.Errorf("Retriable(%v) = %v", testcase.err, got)
			}
		})
	}
}

func TestConnect_GivesUpForUnreachableServer(t *testing.T) {
	ctx := context.Background()

	// nothing listens on the port.
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatal(err)
	}
	addr := l.Addr().String()
	l.Close()

	_, err = kpg.Connect(
		ctx, fmt.Sprintf("postgres://photoshare@%s/photoshare?connect_timeout=1", addr),
		retry.Limit(2, retry.ExponentialBackoff(time.Millisecond, 1, time.Millisecond)),
	)
	if !errors.Is(err, retry.ErrTooManyAttempts) {
		t.Errorf("unexpected error: %v", err)
	}
}
