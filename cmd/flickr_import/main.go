// flickr_import imports a Flickr account data export as photos of a photoshare user.
//
// Photos imported before are skipped, so it can be rerun on the same export.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/opst/photoshare/cmd/flickr_import/importer"
	photoshare "github.com/opst/photoshare/pkg"
	configs "github.com/opst/photoshare/pkg/configs/backend"
	"github.com/opst/photoshare/pkg/conn/flickr"
	kpg "github.com/opst/photoshare/pkg/domain/photoshare/db/postgres"
	"github.com/opst/photoshare/pkg/utils/retry"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/youta-t/flarc"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Flag struct {
	Config   string `flag:"config" help:"photoshare backend config"`
	Schema   string `flag:"schema" help:"schema repository directory"`
	Owner    string `flag:"owner" help:"email of the user who owns imported photos"`
	NSID     string `flag:"nsid" help:"Flickr account of the export. read from account_profile.json when empty"`
	LogLevel string `flag:"loglevel" help:"log level. debug|info|warn|error"`
}

const argExport = "EXPORT_DIR"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	defaults := Flag{
		Config:   os.Getenv("PHOTOSHARE_CONFIG"),
		Schema:   os.Getenv("PHOTOSHARE_SCHEMA"),
		LogLevel: "info",
	}

	cmd := try.To(flarc.NewCommand(
		"import photos from a Flickr account data export",
		defaults,
		flarc.Args{
			{
				Name: argExport, Help: "directory of the extracted export",
				Required: true, Repeatable: false,
			},
		},
		func(ctx context.Context, c flarc.Commandline[Flag], _ []any) error {
			flags := c.Flags()
			if flags.Config == "" || flags.Owner == "" {
				return errors.New("-config and -owner are required")
			}

			level, err := zapcore.ParseLevel(flags.LogLevel)
			if err != nil {
				level = zapcore.InfoLevel
			}
			zconf := zap.NewProductionConfig()
			zconf.Level = zap.NewAtomicLevelAt(level)
			logger, err := zconf.Build()
			if err != nil {
				return err
			}
			defer logger.Sync()

			conf, err := configs.LoadBackendConfig(flags.Config)
			if err != nil {
				return err
			}
			db, err := kpg.Connect(
				ctx, conf.Database(),
				retry.Limit(5, retry.ExponentialBackoff(time.Second, 2, 10*time.Second)),
				kpg.WithSchemaRepository(flags.Schema),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			ps, err := photoshare.Attach(ctx, conf, db)
			if err != nil {
				return err
			}
			defer ps.Close()

			im := &importer.Importer{
				Users:  db.User(),
				Photos: db.Photo(),
				Flickr: db.Flickr(),
				Store:  ps.Storage(),
				Events: ps.Events(),
				Logger: logger,
			}
			if fc := conf.Flickr(); fc != nil && fc.APIKey() != "" {
				im.Client = flickr.New(fc.Endpoint(), fc.APIKey(), fc.RequestsPerSecond())
			}

			report, err := im.Run(ctx, c.Args()[argExport][0], flags.Owner, flags.NSID)
			if err != nil {
				return err
			}
			logger.Info(
				"import finished",
				zap.Int("imported", report.Imported),
				zap.Int("skipped", report.Skipped),
				zap.Int("failed", report.Failed),
			)
			if report.Failed != 0 {
				return fmt.Errorf("%d photos are not imported", report.Failed)
			}
			return nil
		},
	)).OrFatal(log.Default())

	os.Exit(flarc.Run(ctx, cmd))
}
