package config

import (
	"fmt"
	"net/url"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads a hook config file.
func Load(filename string) (Config, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := yaml.Unmarshal(content, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

type Config struct {
	// Hooks called before and after each job is processed.
	Lifecycle WebHook `yaml:"lifecycle-hooks,omitempty"`
}

// WebHook is a set of URLs to be POSTed.
type WebHook struct {
	Before []*url.URL
	After  []*url.URL
}

func parseURLs(key string, raw []string) ([]*url.URL, error) {
	ret := make([]*url.URL, len(raw))
	for i, u := range raw {
		parsed, err := url.Parse(u)
		if err != nil {
			return nil, err
		}
		if parsed.Scheme != "http" && parsed.Scheme != "https" {
			return nil, fmt.Errorf("%s[%d]: webhook should be http or https: %s", key, i, u)
		}
		ret[i] = parsed
	}
	return ret, nil
}

func (wh *WebHook) UnmarshalYAML(node *yaml.Node) error {
	raw := struct {
		Before []string `yaml:"before"`
		After  []string `yaml:"after"`
	}{}
	if err := node.Decode(&raw); err != nil {
		return err
	}

	before, err := parseURLs("before", raw.Before)
	if err != nil {
		return err
	}
	after, err := parseURLs("after", raw.After)
	if err != nil {
		return err
	}

	wh.Before = before
	wh.After = after
	return nil
}
