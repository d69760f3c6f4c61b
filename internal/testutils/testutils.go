package testutils

import (
	"os"
	"path"
	"testing"

	"github.com/spf13/afero"

	"github.com/nfrund/topograph/internal/config"
)

// MemSource writes files, keyed by slash-separated path relative to root,
// onto a fresh in-memory filesystem. root exists even when files is empty.
func MemSource(t *testing.T, root string, files map[string]string) afero.Fs {
	t.Helper()

	memFs := afero.NewMemMapFs()
	if err := memFs.MkdirAll(root, 0755); err != nil {
		t.Fatalf("failed to create %s: %v", root, err)
	}
	for rel, content := range files {
		if err := afero.WriteFile(memFs, path.Join(root, rel), []byte(content), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", rel, err)
		}
	}
	return memFs
}

// ConfigForTests sets env for the duration of the test and returns the
// resulting validated configuration.
func ConfigForTests(t *testing.T, env map[string]string) *config.Config {
	t.Helper()

	for key, value := range env {
		t.Setenv(key, value)
	}

	cfg, err := config.FromEnv(os.Getenv)
	if err != nil {
		t.Fatalf("invalid test configuration: %v", err)
	}
	return cfg
}
