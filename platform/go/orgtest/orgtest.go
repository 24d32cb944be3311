// Package orgtest holds helpers for integration tests that need a real project and scratch org.
package orgtest

import (
	"context"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/zenGate-Global/orgadmin/platform/go/config"
	"github.com/zenGate-Global/orgadmin/platform/go/hostcli"
)

// RemoteTimeout bounds each host call made against a live org.
const RemoteTimeout = 20 * time.Minute

// Config returns the environment config, skipping the test when LOCALONLY is set or the
// host binary is not installed.
func Config(t *testing.T) config.Config {
	t.Helper()

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.LocalOnly {
		t.Skip("LOCALONLY is set; skipping org integration test")
	}
	if _, err := exec.LookPath(cfg.HostBinary); err != nil {
		t.Skipf("%s not on PATH; skipping org integration test", cfg.HostBinary)
	}
	return cfg
}

// Client returns a host client working in dir.
func Client(cfg config.Config, dir string) *hostcli.Client {
	runner := hostcli.ExecRunner{Timeout: RemoteTimeout, MaxOutputBytes: cfg.MaxOutputBytes}
	return hostcli.NewClient(runner, hostcli.ClientConfig{Binary: cfg.HostBinary, Dir: dir})
}

// Run executes a host command in dir and fails the test on error.
func Run(t *testing.T, cfg config.Config, dir string, args ...string) hostcli.Response {
	t.Helper()
	resp, err := Client(cfg, dir).RunJSON(context.Background(), args...)
	if err != nil {
		t.Fatalf("%v", err)
	}
	return resp
}

// CreateProject scaffolds a project named name under a temp dir and returns its root.
func CreateProject(t *testing.T, cfg config.Config, name string) string {
	t.Helper()
	parent := t.TempDir()
	Run(t, cfg, parent, "force:project:create", "-n", name)
	return filepath.Join(parent, name)
}

// CreateScratchOrg creates a default scratch org for the project and deletes it on cleanup.
func CreateScratchOrg(t *testing.T, cfg config.Config, projectDir string) {
	t.Helper()
	Run(t, cfg, projectDir, "force:org:create", "-f", filepath.Join("config", "project-scratch-def.json"), "-s", "-d", "1")
	t.Cleanup(func() {
		if _, err := Client(cfg, projectDir).RunJSON(context.Background(), "force:org:delete", "-p"); err != nil {
			t.Logf("delete scratch org: %v", err)
		}
	})
}
