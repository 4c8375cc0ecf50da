package domain

import (
	"encoding/json"
	"fmt"
	"time"

	domerr "github.com/opst/photoshare/pkg/domain/errors"
)

const (
	SettingSiteTitle          = "site.title"
	SettingSiteDescription    = "site.description"
	SettingUploadsEnabled     = "uploads.enabled"
	SettingRekognitionEnabled = "rekognition.enabled"
)

// settings readable by guests.
var publicSettings = map[string]struct{}{
	SettingSiteTitle:       {},
	SettingSiteDescription: {},
	SettingUploadsEnabled:  {},
}

func IsPublicSetting(key string) bool {
	_, ok := publicSettings[key]
	return ok
}

// defaults for known keys.
var settingDefaults = map[string]json.RawMessage{
	SettingSiteTitle:          json.RawMessage(`"photoshare"`),
	SettingSiteDescription:    json.RawMessage(`""`),
	SettingUploadsEnabled:     json.RawMessage(`true`),
	SettingRekognitionEnabled: json.RawMessage(`true`),
}

func IsKnownSetting(key string) bool {
	_, ok := settingDefaults[key]
	return ok
}

type Setting struct {
	Key       string
	Value     json.RawMessage
	UpdatedAt time.Time
}

// DefaultSetting returns the default value of a known key.
func DefaultSetting(key string) (Setting, bool) {
	v, ok := settingDefaults[key]
	if !ok {
		return Setting{}, false
	}
	return Setting{Key: key, Value: v}, true
}

// DefaultSettings returns all known settings with default values.
func DefaultSettings() map[string]Setting {
	out := map[string]Setting{}
	for k, v := range settingDefaults {
		out[k] = Setting{Key: k, Value: v}
	}
	return out
}

// ValidateSetting checks key is known and value is a valid JSON of the expected type.
func ValidateSetting(key string, value json.RawMessage) error {
	def, ok := settingDefaults[key]
	if !ok {
		return fmt.Errorf("%w: unknown setting: %s", domerr.ErrInvalidArgument, key)
	}
	var want, got any
	if err := json.Unmarshal(def, &want); err != nil {
		return err
	}
	if err := json.Unmarshal(value, &got); err != nil {
		return fmt.Errorf("%w: setting %s is not JSON: %s", domerr.ErrInvalidArgument, key, err)
	}
	if fmt.Sprintf("%T", want) != fmt.Sprintf("%T", got) {
		return fmt.Errorf("%w: setting %s should be %T", domerr.ErrInvalidArgument, key, want)
	}
	return nil
}

// Bool reads the setting as boolean. fallback is returned if not a boolean.
func (s Setting) Bool(fallback bool) bool {
	var b bool
	if err := json.Unmarshal(s.Value, &b); err != nil {
		return fallback
	}
	return b
}

// String reads the setting as string. fallback is returned if not a string.
func (s Setting) String(fallback string) string {
	var str string
	if err := json.Unmarshal(s.Value, &str); err != nil {
		return fallback
	}
	return str
}
