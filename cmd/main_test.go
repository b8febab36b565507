package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
)

func newConfigFlagCmd(t *testing.T, value string) *cobra.Command {
	t.Helper()

	c := &cobra.Command{}
	c.Flags().StringP("config", "c", ".slipway.yaml", "")
	if value != "" {
		if err := c.Flags().Set("config", value); err != nil {
			t.Fatal(err)
		}
	}
	return c
}

func TestResolveConfigPath(t *testing.T) {
	origWD, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(origWD); err != nil {
			t.Fatal(err)
		}
	})
	cwd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	got, err := resolveConfigPath(newConfigFlagCmd(t, ""))
	if err != nil {
		t.Fatalf("resolveConfigPath() returned error: %v", err)
	}
	if want := filepath.Join(cwd, ".slipway.yaml"); got != want {
		t.Errorf("resolveConfigPath() = %q, want %q", got, want)
	}

	abs := filepath.Join(cwd, "custom.yaml")
	got, err = resolveConfigPath(newConfigFlagCmd(t, abs))
	if err != nil {
		t.Fatalf("resolveConfigPath() returned error: %v", err)
	}
	if got != abs {
		t.Errorf("resolveConfigPath() = %q, want %q unchanged", got, abs)
	}
}
