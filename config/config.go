// Package config provides YAML configuration parsing for volley.
//
// A configuration file supplies the target roster and, optionally, the
// repeat factor, request timeout and status server address. Command-line
// flags override the file when set explicitly.
//
// Example configuration:
//
//	count: 20
//	timeout: 1s
//
//	targets:
//	  - http://localhost:9999/ok
//	  - url: ${API_URL:-http://localhost:8080/health}
//
//	grids:
//	  - url_template: "http://{{.host}}:9999/{{.path}}"
//	    dimensions:
//	      host: [localhost, 127.0.0.1]
//	      path: [ok, fail]
package config

import (
	"fmt"
	"os"
	"regexp"
	"text/template"
	"time"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/jpalmerr/volley"
)

const (
	defaultCount   = volley.DefaultCount
	defaultTimeout = volley.DefaultTimeout
)

// Config is the root configuration structure.
//
// It maps directly to the YAML configuration file structure.
// Use [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Count is how many times each target appears in one batch. Defaults to 20.
	Count int `yaml:"count"`

	// Timeout is the per-request timeout. Defaults to 1s.
	Timeout Duration `yaml:"timeout"`

	// StatusAddr enables the status server on the given address when set.
	StatusAddr string `yaml:"status_addr"`

	// Targets lists individual target URLs, in probe order.
	Targets []TargetConfig `yaml:"targets"`

	// Grids define targets that expand via cartesian product. Grid targets
	// follow the direct targets in the roster.
	Grids []GridConfig `yaml:"grids"`
}

// TargetConfig defines a single target.
//
// In YAML it is either a bare URL string or a mapping with a url key:
//
//	targets:
//	  - http://localhost:9999/ok
//	  - url: http://localhost:9999/fail
type TargetConfig struct {
	// URL is the target URL.
	// Supports environment variable substitution: ${VAR} or ${VAR:-default}
	URL string `yaml:"url"`
}

// GridConfig defines targets generated from a URL template.
//
// For example, with dimensions {host: [a, b], path: [x, y]}, the grid expands
// to 4 targets: a/x, a/y, b/x, b/y. Dimension keys are iterated in sorted
// order and values in the order given.
type GridConfig struct {
	// URLTemplate is a Go template for generating target URLs.
	// Dimension keys are available as template variables: {{.host}}
	URLTemplate string `yaml:"url_template"`

	// Dimensions maps dimension names to their possible values.
	Dimensions map[string][]string `yaml:"dimensions"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// UnmarshalYAML implements yaml.Unmarshaler for TargetConfig.
func (t *TargetConfig) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		return node.Decode(&t.URL)
	case yaml.MappingNode:
		// temporary struct to avoid infinite recursion
		var raw struct {
			URL string `yaml:"url"`
		}
		if err := node.Decode(&raw); err != nil {
			return err
		}
		t.URL = raw.URL
		return nil
	default:
		return fmt.Errorf("target must be a string or object, got %v", node.Kind)
	}
}

// envVarPattern matches ${VAR} and ${VAR:-default} patterns.
// Group 1: variable name
// Group 2: the ":-default" part (if present, indicates a default was specified)
// Group 3: the default value (may be empty for ${VAR:-})
var envVarPattern = regexp.MustCompile(`\$\{([^}:]+)(:-([^}]*))?\}`)

// expandEnvVars replaces ${VAR} and ${VAR:-default} patterns with environment values.
func expandEnvVars(s string) (string, error) {
	var firstErr error

	result := envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		if firstErr != nil {
			return match
		}

		submatches := envVarPattern.FindStringSubmatch(match)
		varName := submatches[1]
		hasDefault := submatches[2] != ""
		defaultVal := submatches[3]

		value, exists := os.LookupEnv(varName)
		if !exists {
			if hasDefault {
				return defaultVal
			}
			firstErr = fmt.Errorf("environment variable %q is not set", varName)
			return match
		}
		return value
	})

	if firstErr != nil {
		return "", firstErr
	}
	return result, nil
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data.
//
// Environment variables are expanded in target URLs and grid templates.
// Defaults are applied for Count (20) and Timeout (1s). Every validation
// problem is reported in the returned error, not only the first.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Count == 0 {
		cfg.Count = defaultCount
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = Duration(defaultTimeout)
	}

	if err := cfg.expandAndValidate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// expandAndValidate expands environment variables and validates the config.
func (c *Config) expandAndValidate() error {
	var errs error

	if c.Count < 1 {
		errs = multierr.Append(errs, fmt.Errorf("count must be at least 1, got %d", c.Count))
	}
	if c.Timeout.Duration() <= 0 {
		errs = multierr.Append(errs, fmt.Errorf("timeout must be positive, got %s", c.Timeout.Duration()))
	}

	for i := range c.Targets {
		tc := &c.Targets[i]

		expanded, err := expandEnvVars(tc.URL)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("targets[%d]: url: %w", i, err))
			continue
		}
		tc.URL = expanded

		if err := volley.ValidateURL(tc.URL); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("targets[%d]: %w", i, err))
		}
	}

	for i := range c.Grids {
		g := &c.Grids[i]

		if g.URLTemplate == "" {
			errs = multierr.Append(errs, fmt.Errorf("grids[%d]: url_template is required", i))
			continue
		}
		expanded, err := expandEnvVars(g.URLTemplate)
		if err != nil {
			errs = multierr.Append(errs, fmt.Errorf("grids[%d]: url_template: %w", i, err))
			continue
		}
		g.URLTemplate = expanded

		if _, err := template.New("").Parse(g.URLTemplate); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("grids[%d]: invalid url_template: %w", i, err))
		}

		if len(g.Dimensions) == 0 {
			errs = multierr.Append(errs, fmt.Errorf("grids[%d]: at least one dimension is required", i))
		}
		for _, dimName := range sortedKeys(g.Dimensions) {
			if len(g.Dimensions[dimName]) == 0 {
				errs = multierr.Append(errs, fmt.Errorf("grids[%d]: dimension %q has no values", i, dimName))
			}
		}
	}

	if len(c.Targets) == 0 && len(c.Grids) == 0 {
		errs = multierr.Append(errs, fmt.Errorf("at least one target or grid must be defined"))
	}

	return errs
}
