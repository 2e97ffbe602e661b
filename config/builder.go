package config

import (
	"bytes"
	"fmt"
	"sort"
	"text/template"

	"github.com/jpalmerr/volley"
)

// BuildTargets returns the roster described by cfg.
//
// Direct targets come first, in file order, followed by every grid's
// expansion. Grid dimensions are expanded via cartesian product.
func BuildTargets(cfg *Config) ([]string, error) {
	urls := make([]string, 0, len(cfg.Targets))
	for _, tc := range cfg.Targets {
		urls = append(urls, tc.URL)
	}

	for i, gc := range cfg.Grids {
		gridURLs, err := buildGridTargets(gc)
		if err != nil {
			return nil, fmt.Errorf("grids[%d]: %w", i, err)
		}
		urls = append(urls, gridURLs...)
	}

	return urls, nil
}

// BuildOptions converts cfg into [volley.Option] values.
func BuildOptions(cfg *Config) ([]volley.Option, error) {
	urls, err := BuildTargets(cfg)
	if err != nil {
		return nil, err
	}

	opts := []volley.Option{
		volley.WithTargets(urls...),
		volley.WithCount(cfg.Count),
		volley.WithTimeout(cfg.Timeout.Duration()),
	}
	if cfg.StatusAddr != "" {
		opts = append(opts, volley.WithStatusAddr(cfg.StatusAddr))
	}
	return opts, nil
}

// buildGridTargets expands a GridConfig into target URLs.
func buildGridTargets(gc GridConfig) ([]string, error) {
	// use missingkey=error to fail fast on missing template variables
	tmpl, err := template.New("url").Option("missingkey=error").Parse(gc.URLTemplate)
	if err != nil {
		return nil, err
	}

	combinations := cartesianProduct(gc.Dimensions)

	urls := make([]string, 0, len(combinations))
	for _, combo := range combinations {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, combo); err != nil {
			return nil, fmt.Errorf("dimensions %v: template execution failed: %w", combo, err)
		}
		u := buf.String()
		if err := volley.ValidateURL(u); err != nil {
			return nil, fmt.Errorf("dimensions %v: %q: %w", combo, u, err)
		}
		urls = append(urls, u)
	}

	return urls, nil
}

// sortedKeys returns the keys of m in sorted order.
func sortedKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// cartesianProduct generates all combinations of dimension values.
func cartesianProduct(dimensions map[string][]string) []map[string]string {
	if len(dimensions) == 0 {
		return nil
	}

	// start with single empty combination
	result := []map[string]string{{}}

	for _, key := range sortedKeys(dimensions) {
		values := dimensions[key]
		next := make([]map[string]string, 0, len(result)*len(values))

		for _, combo := range result {
			for _, val := range values {
				newCombo := make(map[string]string, len(combo)+1)
				for k, v := range combo {
					newCombo[k] = v
				}
				newCombo[key] = val
				next = append(next, newCombo)
			}
		}
		result = next
	}

	return result
}
