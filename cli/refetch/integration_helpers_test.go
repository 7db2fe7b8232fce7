//go:build integration

package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/glorpus-work/refetch/pkg/config"
	"github.com/stretchr/testify/require"
)

// testSetup is one self-contained sync environment: a directory served over
// HTTP as the remote side, a work directory for the tracked local files and
// a state directory for the registry and conflict cache.
type testSetup struct {
	ConfigPath string
	RemoteDir  string
	WorkDir    string
	StateDir   string
	Server     *httptest.Server
}

// newTestSetup serves a temp directory over HTTP and writes a config that
// tracks the given names against it.
func newTestSetup(t *testing.T, names ...string) *testSetup {
	t.Helper()
	root := t.TempDir()

	remoteDir := filepath.Join(root, "remote")
	require.NoError(t, os.MkdirAll(remoteDir, 0o755))
	srv := httptest.NewServer(http.FileServer(http.Dir(remoteDir)))
	t.Cleanup(srv.Close)

	cfg := config.DefaultConfig()
	cfg.Settings.BaseDir = filepath.Join(root, "work")
	cfg.Settings.StateDir = filepath.Join(root, "state")
	for _, name := range names {
		cfg.Files = append(cfg.Files, &config.FileConfig{Name: name, URL: srv.URL + "/" + name})
	}

	cfgPath := filepath.Join(root, "config.yaml")
	require.NoError(t, cfg.SaveConfig(cfgPath))

	return &testSetup{
		ConfigPath: cfgPath,
		RemoteDir:  remoteDir,
		WorkDir:    cfg.Settings.BaseDir,
		StateDir:   cfg.Settings.StateDir,
		Server:     srv,
	}
}

// setRemote writes the content the server hands out for name.
func (s *testSetup) setRemote(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(s.RemoteDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// setLocal simulates a user edit of the tracked local file.
func (s *testSetup) setLocal(t *testing.T, name, content string) {
	t.Helper()
	path := filepath.Join(s.WorkDir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func (s *testSetup) localContent(t *testing.T, name string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(s.WorkDir, name))
	require.NoError(t, err)
	return string(data)
}

func (s *testSetup) cachePath(name string) string {
	return filepath.Join(s.StateDir, "cache", name)
}

// runCLI executes the root command with the setup's config preselected.
func (s *testSetup) runCLI(t *testing.T, args ...string) error {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(append([]string{"--config", s.ConfigPath}, args...))
	return cmd.ExecuteContext(context.Background())
}
