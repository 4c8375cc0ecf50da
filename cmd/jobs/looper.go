package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/opst/photoshare/cmd/jobs/hook"
	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	"github.com/opst/photoshare/cmd/jobs/tasks/claims"
	"github.com/opst/photoshare/cmd/jobs/tasks/derivatives"
	"github.com/opst/photoshare/cmd/jobs/tasks/flickrsync"
	"github.com/opst/photoshare/cmd/jobs/tasks/gc"
	"github.com/opst/photoshare/cmd/jobs/tasks/jobrun"
	"github.com/opst/photoshare/cmd/jobs/tasks/rekognition"
	"github.com/opst/photoshare/cmd/jobs/tasks/relatedtags"
	photoshare "github.com/opst/photoshare/pkg"
	apijobs "github.com/opst/photoshare/pkg/api/types/jobs"
	bconf "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/conn/flickr"
	"github.com/opst/photoshare/pkg/conn/vision"
	awsrek "github.com/opst/photoshare/pkg/conn/vision/rekognition"
	"github.com/opst/photoshare/pkg/domain"
	"github.com/opst/photoshare/pkg/imaging"
	"github.com/opst/photoshare/pkg/loop"
	"github.com/opst/photoshare/pkg/utils"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Metrics of loops.
type Metrics struct {
	iterations *prometheus.CounterVec
	jobs       *prometheus.CounterVec
	claims     *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		iterations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "photoshare", Subsystem: "jobs", Name: "iterations_total",
				Help: "Number of loop iterations.",
			},
			[]string{"loop", "updated"},
		),
		jobs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "photoshare", Subsystem: "jobs", Name: "outcomes_total",
				Help: "Number of finished jobs.",
			},
			[]string{"kind", "outcome"},
		),
		claims: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "photoshare", Subsystem: "jobs", Name: "claim_decisions_total",
				Help: "Number of Flickr user claims decided automatically.",
			},
			[]string{"status"},
		),
	}
	reg.MustRegister(m.iterations, m.jobs, m.claims)
	return m
}

func (m *Metrics) observeJob(kind domain.JobKind, outcome jobrun.Outcome) {
	m.jobs.WithLabelValues(string(kind), string(outcome)).Inc()
}

func (m *Metrics) observeClaim(status domain.ClaimStatus) {
	m.claims.WithLabelValues(string(status)).Inc()
}

// monitor wraps a recurring task, logging and counting each iteration.
func monitor[T any](logger *zap.Logger, metrics *Metrics, loopType domain.LoopType, task recurring.Task[T]) recurring.Task[T] {
	var counter uint64
	return func(ctx context.Context, t T) (T, bool, error) {
		counter += 1
		begin := time.Now()

		logger.Debug("task start", zap.Uint64("iteration", counter))
		ret, updated, err := task(ctx, t)

		metrics.iterations.WithLabelValues(loopType.String(), fmt.Sprint(updated)).Inc()
		fields := []zap.Field{
			zap.Uint64("iteration", counter),
			zap.Duration("took", time.Since(begin)),
			zap.Bool("updated", updated),
		}
		if err != nil {
			logger.Error("task end", append(fields, zap.Error(err))...)
		} else {
			logger.Debug("task end", fields...)
		}
		return ret, updated, err
	}
}

// Manifest for starting a loop, which determines how the loop should behave.
type LoopManifest struct {
	Type domain.LoopType

	// Policy for the looping
	Policy recurring.Policy

	// Hooks called around each job
	Hooks hook.Hook[apijobs.Detail, struct{}]
}

// Services used by loops, which are built lazily.
type Services struct {
	photoshare.Photoshare

	Flickr  func(context.Context) (flickr.Client, error)
	Labeler func(context.Context) (vision.Labeler, error)
}

// ServicesOf builds Services upon ps following its config.
func ServicesOf(ps photoshare.Photoshare) Services {
	conf := ps.Config()
	return Services{
		Photoshare: ps,
		Flickr: func(context.Context) (flickr.Client, error) {
			fc := conf.Flickr()
			if fc.APIKey() == "" {
				return nil, errors.New("flickr.apiKey is not configured")
			}
			return flickr.New(fc.Endpoint(), fc.APIKey(), fc.RequestsPerSecond()), nil
		},
		Labeler: func(ctx context.Context) (vision.Labeler, error) {
			cfg, err := ps.AWS(ctx)
			if err != nil {
				return nil, err
			}
			rc := conf.Rekognition()
			return awsrek.FromConfig(cfg, rc.MaxLabels(), rc.MinConfidence()), nil
		},
	}
}

func sizesOf(ds []bconf.DerivativeSize) []imaging.Size {
	return utils.Map(ds, func(d bconf.DerivativeSize) imaging.Size {
		return imaging.Size{Name: d.Name, Width: d.Width, Height: d.Height, Mode: imaging.Mode(d.Mode)}
	})
}

// StartLoop runs the loop of manifest.Type until it breaks.
func StartLoop(
	ctx context.Context,
	logger *zap.Logger,
	metrics *Metrics,
	svc Services,
	manifest LoopManifest,
) error {
	l := logger.Named(manifest.Type.String())
	db := svc.Database()
	runner := jobrun.New(db.Job(), manifest.Hooks, metrics.observeJob, l)
	policy := manifest.Policy

	if kind, ok := manifest.Type.JobKind(); ok {
		// report zeros before the first job.
		for _, outcome := range []jobrun.Outcome{jobrun.Done, jobrun.Failed} {
			metrics.jobs.WithLabelValues(string(kind), string(outcome))
		}
	}

	switch manifest.Type {
	case domain.DerivativesLoop:
		return start(ctx, derivatives.Seed(), monitor(
			l, metrics, manifest.Type,
			derivatives.Task(runner, db.Photo(), svc.Storage(), sizesOf(svc.Config().Derivatives())),
		), policy, loop.WithTimeout(5*time.Minute))

	case domain.RekognitionLoop:
		labeler, err := svc.Labeler(ctx)
		if err != nil {
			return err
		}
		return start(ctx, rekognition.Seed(), monitor(
			l, metrics, manifest.Type,
			rekognition.Task(runner, rekognition.Deps{
				Photos:   db.Photo(),
				Tags:     db.Tag(),
				Settings: db.Setting(),
				Storage:  svc.Storage(),
				Labeler:  labeler,
			}),
		), policy, loop.WithTimeout(time.Minute))

	case domain.FlickrSyncLoop:
		client, err := svc.Flickr(ctx)
		if err != nil {
			return err
		}
		return start(ctx, flickrsync.Seed(), monitor(
			l, metrics, manifest.Type,
			flickrsync.Task(runner, db.Flickr(), client, l, nil),
		), policy, loop.WithTimeout(time.Minute))

	case domain.ClaimVerificationLoop:
		client, err := svc.Flickr(ctx)
		if err != nil {
			return err
		}
		return start(ctx, claims.Seed(), monitor(
			l, metrics, manifest.Type,
			claims.Task(db.Flickr(), client, metrics.observeClaim, l, nil),
		), policy, loop.WithTimeout(time.Minute))

	case domain.RelatedTagsLoop:
		return start(ctx, relatedtags.Seed(), monitor(
			l, metrics, manifest.Type,
			relatedtags.Task(runner, db.Job(), db.Tag(), l, nil),
		), policy, loop.WithTimeout(30*time.Minute))

	case domain.GarbageCollectionLoop:
		return start(ctx, gc.Seed(), monitor(
			l, metrics, manifest.Type,
			gc.Task(db.Garbage(), svc.Storage()),
		), policy, loop.WithTimeout(time.Minute))
	}

	return fmt.Errorf("%w: %s", domain.ErrUnknownLoopType, manifest.Type)
}

func start[T any](ctx context.Context, seed T, task recurring.Task[T], policy recurring.Policy, options ...loop.Option) error {
	_, err := loop.Start(ctx, seed, task.Applied(policy), options...)
	return err
}
