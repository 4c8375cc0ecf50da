package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/opst/photoshare/cmd/jobs/hook"
	"github.com/opst/photoshare/cmd/jobs/loop/recurring"
	photoshare "github.com/opst/photoshare/pkg"
	configs "github.com/opst/photoshare/pkg/configs/backend"
	cfg_hook "github.com/opst/photoshare/pkg/configs/hook"
	"github.com/opst/photoshare/pkg/domain"
	kpg "github.com/opst/photoshare/pkg/domain/photoshare/db/postgres"
	"github.com/opst/photoshare/pkg/utils/args"
	"github.com/opst/photoshare/pkg/utils/filewatch"
	"github.com/opst/photoshare/pkg/utils/retry"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	ctx, cancel := signal.NotifyContext(
		context.Background(), os.Interrupt, os.Kill, syscall.SIGTERM,
	)
	// call cancel() when this function exits
	defer cancel()

	// define command line flags
	//-- path to config file
	pconfig := flag.String(
		"config", os.Getenv("PHOTOSHARE_CONFIG"), "path to config file",
	)
	pSchemaRepo := flag.String(
		"schema-repo", os.Getenv("PHOTOSHARE_SCHEMA"), "schema repository path",
	)
	phooks := flag.String(
		"hooks", os.Getenv("PHOTOSHARE_HOOK_CONFIG"), "path to hook config file",
	)
	//-- which loop type to run
	loopType := try.To(
		args.Parser(domain.AsLoopType).FromEnv("PHOTOSHARE_LOOP_TYPE"),
	).OrFatal(log.Default())
	flag.Var(loopType, "type", "one of loop type")
	//-- loop policy
	policy := try.To(
		args.Parser(recurring.ParsePolicy).FromEnv("PHOTOSHARE_LOOP_POLICY"),
	).OrFatal(log.Default())
	flag.Var(
		policy, "policy",
		`loop policy. one of:`+
			` "forever[:COOLDOWN]" runs until error, waiting COOLDOWN (default 0) when backlog is over;`+
			` "idle:MIN:MAX" is forever, but the wait grows from MIN to MAX while idle;`+
			` "backlog" runs until error or backlog is over.`,
	)
	ploglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error")
	pmetrics := flag.String("metrics-addr", "", "address to serve /metrics (e.g. \":9090\"). disabled when empty")
	// parse command line flags
	flag.Parse()

	level, err := zapcore.ParseLevel(*ploglevel)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zconf := zap.NewProductionConfig()
	zconf.Level = zap.NewAtomicLevelAt(level)
	logger := try.To(zconf.Build()).OrFatal(log.Default())
	defer logger.Sync()
	fatal := logger.Sugar()

	if missing := args.Missing(map[string]args.Settable{
		"-type": loopType, "-policy": policy,
	}); len(missing) != 0 {
		fatal.Fatalf("required: %s", strings.Join(missing, ", "))
	}

	{
		// watch config & hooks
		watched := []string{*pconfig}
		if *phooks != "" {
			watched = append(watched, *phooks)
		}
		wctx, cancel, err := filewatch.UntilModifyContext(ctx, watched...)
		if err != nil {
			fatal.Fatal(err)
		}
		defer cancel()
		ctx = wctx
	}

	conf := try.To(configs.LoadBackendConfig(*pconfig)).OrFatal(fatal)
	db := try.To(kpg.Connect(
		ctx, conf.Database(),
		retry.Limit(10, retry.ExponentialBackoff(time.Second, 2, 30*time.Second)),
		kpg.WithSchemaRepository(*pSchemaRepo),
	)).OrFatal(fatal)
	{
		ctx_, ccan := db.Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	ps := try.To(photoshare.Attach(ctx, conf, db)).OrFatal(fatal)
	defer ps.Close()

	hooks := cfg_hook.Config{}
	if hookPath := *phooks; hookPath != "" {
		hooks = try.To(cfg_hook.Load(hookPath)).OrFatal(fatal)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := NewMetrics(reg)
	if addr := *pmetrics; addr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
		server := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server stopped", zap.Error(err))
			}
		}()
		defer server.Close()
	}

	logger.Info(
		"start loop",
		zap.String("type", loopType.Value().String()),
		zap.String("policy", policy.Value().String()),
	)

	err = StartLoop(
		ctx, logger, metrics, ServicesOf(ps),
		LoopManifest{
			Type:   loopType.Value(),
			Policy: recurring.UntilError(policy.Value()),
			Hooks:  hook.Build(hooks.Lifecycle),
		},
	)

	if err == nil {
		return
	} else if errors.Is(err, context.Canceled) {
		logger.Info("loop context is cancelled", zap.NamedError("cause", context.Cause(ctx)))
		return
	}
	logger.Error("loop stopped", zap.Error(err))
	os.Exit(1)
}
