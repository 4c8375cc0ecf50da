// schema_upgrader applies pending schema versions to the photoshare database.
//
// The database is given by -config (photoshare backend config) or by -host, -port and so on.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strconv"
	"time"

	configs "github.com/opst/photoshare/pkg/configs/backend"
	kpg "github.com/opst/photoshare/pkg/domain/photoshare/db/postgres"
	"github.com/opst/photoshare/pkg/utils/retry"
	"github.com/opst/photoshare/pkg/utils/try"
	"github.com/youta-t/flarc"
)

type Flag struct {
	Config string `flag:"config" help:"photoshare backend config. When given, database flags are ignored."`

	Host     string `flag:"host" help:"database host"`
	Port     int    `flag:"port" help:"database port"`
	User     string `flag:"user" help:"database user"`
	Password string `flag:"pass" help:"database password"`
	Database string `flag:"database" help:"database name"`

	Schema string `flag:"schema" help:"schema repository directory"`
	DryRun bool   `flag:"dry-run" help:"print versions to be applied without upgrading"`
}

const argExportTo = "EXPORT_TO"

func envInt(name string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(name)); err == nil {
		return v
	}
	return fallback
}

// databaseURL builds the connection string of the database to be upgraded.
func databaseURL(f Flag) (string, error) {
	if f.Config != "" {
		conf, err := configs.LoadBackendConfig(f.Config)
		if err != nil {
			return "", err
		}
		return conf.Database(), nil
	}
	if f.Host == "" || f.Database == "" {
		return "", errors.New("-host and -database are required without -config")
	}
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(f.User, f.Password),
		Host:   fmt.Sprintf("%s:%d", f.Host, f.Port),
		Path:   "/" + f.Database,
	}
	return u.String(), nil
}

func main() {
	logger := log.New(os.Stderr, "[schema_upgrader] ", log.LstdFlags)
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	defaults := Flag{
		Config:   os.Getenv("PHOTOSHARE_CONFIG"),
		Host:     os.Getenv("DB_HOST"),
		Port:     envInt("DB_PORT", 5432),
		User:     os.Getenv("DB_USER"),
		Password: os.Getenv("DB_PASSWORD"),
		Database: os.Getenv("DB_NAME"),
		Schema:   os.Getenv("PHOTOSHARE_SCHEMA"),
	}

	cmd := try.To(flarc.NewCommand(
		"upgrade photoshare database schema",
		defaults,
		flarc.Args{
			{
				Name: argExportTo, Help: "copy the schema repository into this directory before upgrading",
				Required: false, Repeatable: false,
			},
		},
		func(ctx context.Context, c flarc.Commandline[Flag], _ []any) error {
			flags := c.Flags()
			if flags.Schema == "" {
				return errors.New("-schema is required")
			}

			if dest := c.Args()[argExportTo]; len(dest) != 0 {
				logger.Printf("exporting schema repository to %s", dest[0])
				if err := os.CopyFS(dest[0], os.DirFS(flags.Schema)); err != nil {
					return err
				}
			}

			dburl, err := databaseURL(flags)
			if err != nil {
				return err
			}
			db, err := kpg.Connect(
				ctx, dburl,
				retry.Limit(5, retry.ExponentialBackoff(time.Second, 2, 10*time.Second)),
				kpg.WithSchemaRepository(flags.Schema),
			)
			if err != nil {
				return err
			}
			defer db.Close()

			return upgrade(ctx, db.Schema(), flags.DryRun, logger)
		},
	)).OrFatal(logger)

	os.Exit(flarc.Run(ctx, cmd))
}
