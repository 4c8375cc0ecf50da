package main

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/opst/photoshare/cmd/jobs/hook"
	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	photoshare "github.com/opst/photoshare/pkg"
	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	bconf "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/domain"
	dbmock "github.com/opst/photoshare/pkg/domain/photoshare/db/mock"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func attach(t *testing.T, db *dbmock.Database) photoshare.Photoshare {
	t.Helper()
	conf, err := bconf.Unmarshal([]byte(`
server:
  port: 8080
  publicUrl: https://photos.example.com
database: postgres://photoshare@db/photoshare
storage:
  kind: local
  root: ` + t.TempDir() + `
  baseUrl: /objects
`))
	require.NoError(t, err)
	ps, err := photoshare.Attach(context.Background(), conf, db)
	require.NoError(t, err)
	t.Cleanup(func() { ps.Close() })
	return ps
}

func TestStartLoop_GarbageCollection(t *testing.T) {
	ctx := context.Background()
	db := dbmock.New()
	ps := attach(t, db)

	for _, key := range []string{"originals/1.jpg", "derivatives/1/thumb.jpg"} {
		require.NoError(t, ps.Storage().Put(ctx, key, strings.NewReader("x"), 1, "image/jpeg"))
	}

	garbages := []domain.Garbage{
		{ObjectKey: "originals/1.jpg"},
		{ObjectKey: "derivatives/1/thumb.jpg"},
		{ObjectKey: "derivatives/1/missing.jpg"},
	}
	db.Garbages.Impl.Pop = func(_ context.Context, f func(domain.Garbage) error) (bool, error) {
		if len(garbages) == 0 {
			return false, nil
		}
		g := garbages[0]
		garbages = garbages[1:]
		return true, f(g)
	}

	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	err := StartLoop(
		ctx, zap.NewNop(), metrics, ServicesOf(ps),
		LoopManifest{
			Type:   domain.GarbageCollectionLoop,
			Policy: recurring.UntilError(recurring.Backlog()),
			Hooks:  hook.None[apijobs.Detail]{},
		},
	)
	require.NoError(t, err)

	assert.Empty(t, garbages)
	for _, key := range []string{"originals/1.jpg", "derivatives/1/thumb.jpg"} {
		_, err := ps.Storage().Get(ctx, key)
		assert.Error(t, err, key)
	}
	assert.Equal(t, 3.0, testutil.ToFloat64(metrics.iterations.WithLabelValues("garbage_collection", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(metrics.iterations.WithLabelValues("garbage_collection", "false")))
}

func TestStartLoop_BreaksWithError(t *testing.T) {
	ctx := context.Background()
	db := dbmock.New()
	ps := attach(t, db)

	expectedErr := errors.New("fake error")
	db.Garbages.Impl.Pop = func(context.Context, func(domain.Garbage) error) (bool, error) {
		return false, expectedErr
	}

	err := StartLoop(
		ctx, zap.NewNop(), NewMetrics(prometheus.NewRegistry()), ServicesOf(ps),
		LoopManifest{
			Type:   domain.GarbageCollectionLoop,
			Policy: recurring.UntilError(recurring.Forever(0)),
			Hooks:  hook.None[apijobs.Detail]{},
		},
	)
	assert.ErrorIs(t, err, expectedErr)
}

func TestStartLoop_FlickrLoopsRequireAPIKey(t *testing.T) {
	for _, lt := range []domain.LoopType{domain.FlickrSyncLoop, domain.ClaimVerificationLoop} {
		t.Run(lt.String(), func(t *testing.T) {
			db := dbmock.New()
			ps := attach(t, db)

			err := StartLoop(
				context.Background(), zap.NewNop(), NewMetrics(prometheus.NewRegistry()), ServicesOf(ps),
				LoopManifest{Type: lt, Policy: recurring.Backlog()},
			)
			assert.ErrorContains(t, err, "flickr.apiKey")
			assert.Empty(t, db.Flickrs.Calls.StaleUsers)
		})
	}
}

func TestStartLoop_UnknownType(t *testing.T) {
	db := dbmock.New()
	ps := attach(t, db)

	err := StartLoop(
		context.Background(), zap.NewNop(), NewMetrics(prometheus.NewRegistry()), ServicesOf(ps),
		LoopManifest{Type: domain.LoopType("housekeeping"), Policy: recurring.Backlog()},
	)
	assert.ErrorIs(t, err, domain.ErrUnknownLoopType)
}
