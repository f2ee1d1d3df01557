package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"runtime/debug"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/toeirei/createch/core/identity"
	"github.com/toeirei/createch/core/identity/identitytest"
	"github.com/toeirei/createch/internal/config"
	"github.com/toeirei/createch/internal/logging"
	"github.com/toeirei/createch/internal/store"
)

type testEnv struct {
	provider *identitytest.Provider
	docs     *identitytest.DocumentStore
	dbPath   string
	cfgDir   string
}

// setupTest isolates configuration and replaces the Firebase backend with an
// in-memory provider.
func setupTest(t *testing.T, overwrites identitytest.ProviderOverwrites) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		provider: identitytest.NewProvider(overwrites),
		docs:     &identitytest.DocumentStore{},
		dbPath:   filepath.Join(dir, "createch.db"),
		cfgDir:   filepath.Join(dir, "config"),
	}

	t.Setenv("XDG_CONFIG_HOME", env.cfgDir)
	t.Setenv("CREATECH_FIREBASE_API_KEY", "test-key")
	origDotEnv := config.DotEnvFile
	config.DotEnvFile = filepath.Join(dir, ".env")

	origBackend := newBackend
	newBackend = func(config.Config, *store.Store) backend {
		return backend{
			open: func(context.Context) (identity.Provider, identity.DocumentStore, error) {
				return env.provider, env.docs, nil
			},
			verify: func(context.Context) (string, error) {
				if u := env.provider.CurrentUser(); u != nil {
					return u.UID, nil
				}
				return "", identity.ErrNoUser
			},
		}
	}
	logging.SetOutput(io.Discard)

	t.Cleanup(func() {
		closeServices()
		newBackend = origBackend
		config.DotEnvFile = origDotEnv
		logging.SetOutput(os.Stderr)
	})
	return env
}

// run executes a fresh root command and tears the services down afterwards.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(append(args, "--database.dsn", e.dbPath))
	err := root.Execute()
	closeServices()
	return out.String(), errOut.String(), err
}

func TestResolveBuildVersion_WithBuildInfo(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "v1.2.3"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "deadbeef"},
			{Key: "vcs.time", Value: "2026-01-01T00:00:00Z"},
		},
	}

	v, c, d := resolveBuildVersion(info)
	if v != "v1.2.3" || c != "deadbeef" || d != "2026-01-01T00:00:00Z" {
		t.Fatalf("unexpected build version %q %q %q", v, c, d)
	}
}

func TestResolveBuildVersion_DependencyFallback(t *testing.T) {
	info := &debug.BuildInfo{
		Main: debug.Module{Path: modulePath, Version: "(devel)"},
		Deps: []*debug.Module{{Path: modulePath, Version: "v0.3.1-0.20260101000000-d1692e4643ee"}},
	}
	v, _, _ := resolveBuildVersion(info)
	if v != "v0.3.1-0.20260101000000-d1692e4643ee" {
		t.Fatalf("expected dependency version fallback got %s", v)
	}
}

func TestResolveBuildVersion_GitCommitFallback(t *testing.T) {
	orig := gitCommit
	defer func() { gitCommit = orig }()
	gitCommit = "deadbeef"

	v, _, _ := resolveBuildVersion(&debug.BuildInfo{Main: debug.Module{Path: modulePath, Version: "(devel)"}})
	if v != "deadbeef" {
		t.Fatalf("expected gitCommit fallback got %s", v)
	}
}

func TestApplyDefaultFlags_AddsFlags(t *testing.T) {
	cmd := &cobra.Command{}
	applyDefaultFlags(cmd)
	applyDefaultFlags(cmd) // must not panic on redefinition

	for _, name := range []string{"database.type", "database.dsn", "log.level"} {
		if cmd.PersistentFlags().Lookup(name) == nil {
			t.Fatalf("%s flag not present", name)
		}
	}
}

func TestGetConfigPathFromCli(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.Flags().String("config", "", "config file")

	if p, err := getConfigPathFromCli(cmd); err != nil || p != nil {
		t.Fatalf("expected nil path when flag not set, got %v %v", p, err)
	}

	file := filepath.Join(t.TempDir(), "createch.yaml")
	if err := os.WriteFile(file, []byte("language: de\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	_ = cmd.Flags().Set("config", file)
	p, err := getConfigPathFromCli(cmd)
	if err != nil || p == nil || *p != file {
		t.Fatalf("expected %s, got %v %v", file, p, err)
	}

	_ = cmd.Flags().Set("config", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := getConfigPathFromCli(cmd); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}

func TestVersionCmd(t *testing.T) {
	env := setupTest(t, identitytest.ProviderOverwrites{})
	out, _, err := env.run(t, "", "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "version: ") || !strings.Contains(out, "commit: ") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestFirstRunWritesDefaultConfig(t *testing.T) {
	env := setupTest(t, identitytest.ProviderOverwrites{})
	if _, _, err := env.run(t, "", "version"); err != nil {
		t.Fatalf("version: %v", err)
	}
	data, err := os.ReadFile(filepath.Join(env.cfgDir, "createch", "createch.yaml"))
	if err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if !strings.Contains(string(data), "redirect_addr:") || !strings.Contains(string(data), "127.0.0.1:8765") {
		t.Fatalf("unexpected default config:\n%s", data)
	}
}

func TestConfigInit(t *testing.T) {
	env := setupTest(t, identitytest.ProviderOverwrites{})
	t.Setenv("CREATECH_APP_NAMESPACE", "ns-from-env")

	out, _, err := env.run(t, "", "config", "init")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	path := filepath.Join(env.cfgDir, "createch", "createch.yaml")
	if !strings.Contains(out, path) {
		t.Fatalf("expected written path in output, got %q", out)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "ns-from-env") {
		t.Fatalf("effective config not written:\n%s", data)
	}
}
