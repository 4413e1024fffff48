package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunReturnsConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: [unclosed\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"-config", path})
	if err == nil {
		t.Fatal("run() should return an error for an unparsable config")
	}
	if !strings.HasPrefix(err.Error(), "config:") {
		t.Errorf("run() error = %q, want config: prefix", err)
	}
}

func TestRunReturnsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte("log_level: chatty\n"), 0644); err != nil {
		t.Fatal(err)
	}

	err := run([]string{"-config", path})
	if err == nil {
		t.Fatal("run() should return an error for an invalid config")
	}
	if !strings.HasPrefix(err.Error(), "config validation:") {
		t.Errorf("run() error = %q, want config validation: prefix", err)
	}
}

func TestRunRejectsUnknownFlag(t *testing.T) {
	if err := run([]string{"-bogus"}); err == nil {
		t.Error("run() should return an error for an unknown flag")
	}
}

func TestRunHelpIsNotAnError(t *testing.T) {
	if err := run([]string{"-h"}); err != nil {
		t.Errorf("run(-h) error = %v, want nil", err)
	}
}
