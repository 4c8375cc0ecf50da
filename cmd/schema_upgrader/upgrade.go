package main

import (
	"context"
	"log"

	kschema "github.com/opst/photoshare/pkg/domain/schema/db"
)

func upgrade(ctx context.Context, schema kschema.SchemaInterface, dryRun bool, logger *log.Logger) error {
	current, err := schema.Version(ctx)
	if err != nil {
		return err
	}
	latest, err := schema.Latest()
	if err != nil {
		return err
	}
	if latest <= current {
		logger.Printf("schema is up to date (version %d)", current)
		return nil
	}
	if dryRun {
		logger.Printf("schema will be upgraded: %d -> %d", current, latest)
		return nil
	}

	applied, err := schema.Upgrade(ctx)
	if err != nil {
		return err
	}
	logger.Printf("schema upgraded: %d -> %d (applied: %v)", current, latest, applied)
	return nil
}
