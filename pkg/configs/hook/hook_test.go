package config_test

import (
	"os"
	"path/filepath"
	"testing"

	cfg_hook "github.com/opst/photoshare/pkg/configs/hook"
)

func TestLoad(t *testing.T) {
	t.Run("it loads lifecycle hooks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hooks.yaml")
		if err := os.WriteFile(path, []byte(`
lifecycle-hooks:
  before:
    - https://hooks.example.com/before
  after:
    - http://hooks.example.com/after-1
    - http://hooks.example.com/after-2
`), 0o600); err != nil {
			t.Fatal(err)
		}

		conf, err := cfg_hook.Load(path)
		if err != nil {
			t.Fatal(err)
		}

		if len(conf.Lifecycle.Before) != 1 || conf.Lifecycle.Before[0].String() != "https://hooks.example.com/before" {
			t.Errorf("before: %v", conf.Lifecycle.Before)
		}
		if len(conf.Lifecycle.After) != 2 || conf.Lifecycle.After[1].String() != "http://hooks.example.com/after-2" {
			t.Errorf("after: %v", conf.Lifecycle.After)
		}
	})

	t.Run("it rejects non-http hooks", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "hooks.yaml")
		if err := os.WriteFile(path, []byte(`
lifecycle-hooks:
  before:
    - ftp://hooks.example.com/before
`), 0o600); err != nil {
			t.Fatal(err)
		}

		if _, err := cfg_hook.Load(path); err == nil {
			t.Error("it should fail")
		}
	})
}
