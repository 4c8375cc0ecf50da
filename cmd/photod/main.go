package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"time"

	photoshare "github.com/opst/photoshare/pkg"
	configs "github.com/opst/photoshare/pkg/configs/backend"
	kpg "github.com/opst/photoshare/pkg/domain/photoshare/db/postgres"
	"github.com/opst/photoshare/pkg/utils/filewatch"
	"github.com/opst/photoshare/pkg/utils/retry"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	pconfig := flag.String(
		"config", os.Getenv("PHOTOSHARE_CONFIG"), "path to config file",
	)
	schemaRepo := flag.String("schema-repo", os.Getenv("PHOTOSHARE_SCHEMA"), "schema repository path")
	loglevel := flag.String("loglevel", "info", "log level. debug|info|warn|error|off")
	pcert := flag.String("cert", "", "certification file for TLS")
	pkey := flag.String("certkey", "", "key of certification file for TLS")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, os.Kill)
	defer cancel()

	conf, err := configs.LoadBackendConfig(*pconfig)
	if err != nil {
		log.Fatalf("can not read configration: %s", err)
	}
	{
		ctx_, ccan, err := filewatch.UntilModifyContext(ctx, *pconfig)
		if err != nil {
			log.Fatalf("can not watch configration: %s", err)
		}
		defer ccan()
		ctx = ctx_
	}

	db, err := kpg.Connect(ctx, conf.Database(), connectBackoff(), kpg.WithSchemaRepository(*schemaRepo))
	if err != nil {
		log.Fatalf("can not connect to database: %s", err)
	}
	{
		ctx_, ccan := db.Schema().Context(ctx)
		defer ccan()
		ctx = ctx_
	}

	ps, err := photoshare.Attach(ctx, conf, db)
	if err != nil {
		log.Fatalf("can not attach middlewares: %s", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	server, err := BuildServer(ps, *loglevel, reg)
	if err != nil {
		log.Fatalf("can not build server: %s", err)
	}
	for _, r := range server.Routes() {
		server.Logger.Debugf("- mount handler: %s %s", strings.ToUpper(r.Method), r.Path)
	}

	ch := make(chan error, 1)
	go func() {
		defer close(ch)
		addr := fmt.Sprintf(":%d", conf.Server().Port())
		var err error
		if *pcert != "" && *pkey != "" {
			err = server.StartTLS(addr, *pcert, *pkey)
		} else {
			err = server.Start(addr)
		}
		if err != nil && err != http.ErrServerClosed {
			ch <- err
		}
	}()

	exit := 0
	select {
	case <-ctx.Done():
		if cause := context.Cause(ctx); cause != nil && cause != context.Canceled {
			server.Logger.Infof("context has been done: %s, cause: %s", ctx.Err(), cause)
			exit = 1
		}
	case err := <-ch:
		if err != nil {
			server.Logger.Error("server stops with error:", err)
			exit = 1
		}
	}

	server.Logger.Info("shutting down...")
	qctx, qcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer qcancel()
	if err := server.Shutdown(qctx); err != nil {
		server.Logger.Errorf("Shutdown with error. %+v", err)
		exit = 1
	}
	if err := ps.Close(); err != nil {
		server.Logger.Errorf("closing connections: %s", err)
	}
	os.Exit(exit)
}

// the database may start later than photod.
func connectBackoff() retry.Backoff {
	return retry.Limit(10, retry.ExponentialBackoff(time.Second, 2, 30*time.Second))
}
