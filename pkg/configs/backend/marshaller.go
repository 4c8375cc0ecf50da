package backend

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

var ErrMisconfigured = errors.New("misconfigured")

// LoadBackendConfig reads the config file at filepath.
func LoadBackendConfig(filepath string) (*BackendConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	conf, err := Unmarshal(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath, err)
	}
	return conf, nil
}

var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// expandEnv replaces ${NAME} with the environment variable NAME.
//
// Bare $NAME is left as is, since passwords and URLs may contain '$'.
func expandEnv(conf []byte) []byte {
	return envRef.ReplaceAllFunc(conf, func(ref []byte) []byte {
		name := envRef.FindSubmatch(ref)[1]
		return []byte(os.Getenv(string(name)))
	})
}

// Unmarshal parses YAML config, after expanding ${NAME} references to environment variables.
//
// Misconfigurations are reported as ErrMisconfigured, with the path to the wrong item.
func Unmarshal(conf []byte) (out *BackendConfig, err error) {
	var m *BackendConfigMarshall
	if err := yaml.Unmarshal(expandEnv(conf), &m); err != nil {
		return nil, err
	}
	if m == nil {
		m = &BackendConfigMarshall{}
	}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		out = nil
		if e, ok := r.(error); ok {
			err = fmt.Errorf("%w: %w", ErrMisconfigured, e)
		} else {
			err = fmt.Errorf("%w: %v", ErrMisconfigured, r)
		}
	}()
	return TrySeal(m), nil
}
