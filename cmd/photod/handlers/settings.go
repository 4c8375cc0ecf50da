package handlers

import (
	"context"
	"encoding/json"

	"github.com/opst/photoshare/pkg/domain"
	ksetting "github.com/opst/photoshare/pkg/domain/setting/db"
)

// settingOf reads a setting into v.
//
// When the setting can not be read, v is set to the default.
func settingOf[T any](ctx context.Context, settings ksetting.SettingInterface, key string, v *T) error {
	s, err := settings.Get(ctx, key)
	if err == nil {
		if err = json.Unmarshal(s.Value, v); err == nil {
			return nil
		}
	}
	if def, ok := domain.DefaultSetting(key); ok {
		json.Unmarshal(def.Value, v)
	}
	return err
}

type site struct {
	Title       string
	Description string
}

// siteOf reads the site title and description. Failures fall back to defaults.
func siteOf(ctx context.Context, settings ksetting.SettingInterface) site {
	s := site{}
	settingOf(ctx, settings, domain.SettingSiteTitle, &s.Title)
	settingOf(ctx, settings, domain.SettingSiteDescription, &s.Description)
	return s
}
