package main

import (
	"context"
	"strings"
	"testing"
)

func TestRunValidate_ValidConfig(t *testing.T) {
	path := writeFile(t, "targets.yaml", `
count: 10
timeout: 2s
targets:
  - http://localhost:9999/ok
grids:
  - url_template: "http://{{.host}}:9999/{{.path}}"
    dimensions:
      host: [localhost, 127.0.0.1]
      path: [ok, fail]
`)

	output, err := executeCmd(t, context.Background(), "validate", "-f", path)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Count:      10",
		"Timeout:    2s",
		"1 direct + 4 from grids = 5 total",
		"Batch size: 50",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	path := writeFile(t, "invalid.yaml", `
targets:
  - example.com
  - ftp://example.com
`)

	_, err := executeCmd(t, context.Background(), "validate", "-f", path)
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	for _, want := range []string{"targets[0]", "targets[1]"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %q, got: %v", want, err)
		}
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeCmd(t, context.Background(), "validate", "-f", "/nonexistent/path/targets.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestRunValidate_FileFlagRequired(t *testing.T) {
	_, err := executeCmd(t, context.Background(), "validate")
	if err == nil {
		t.Fatal("validate command expected error without --file, got nil")
	}
}
