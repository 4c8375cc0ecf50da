package db

import (
	"context"
	"encoding/json"

	"github.com/opst/photoshare/pkg/domain"
)

type SettingInterface interface {
	// Get returns the setting. If it is not stored, the default value is returned.
	//
	// # Returns
	//
	// - error: ErrMissing when the key is unknown.
	Get(ctx context.Context, key string) (domain.Setting, error)

	// All returns all known settings, stored values overlaying defaults.
	All(ctx context.Context) (map[string]domain.Setting, error)

	// Set validates and stores the setting.
	Set(ctx context.Context, key string, value json.RawMessage) (domain.Setting, error)
}
