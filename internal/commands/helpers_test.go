package commands

import (
	"bytes"
	"testing"

	"github.com/diogo/floatchat/internal/api"
	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/session"
	"github.com/diogo/floatchat/internal/tui"
)

// fakeTUI records what the commands hand to the TUI instead of starting it
type fakeTUI struct {
	chatCtrl    *session.Controller
	chatOpts    tui.Options
	chatCalled  bool
	configCfg   config.Config
	configBase  string
	configCount int
}

func (f *fakeTUI) RunChat(ctrl *session.Controller, opts tui.Options) error {
	f.chatCalled = true
	f.chatCtrl = ctrl
	f.chatOpts = opts
	return nil
}

func (f *fakeTUI) RunConfig(cfg config.Config, baseURL string) error {
	f.configCount++
	f.configCfg = cfg
	f.configBase = baseURL
	return nil
}

// testEnv bundles injected dependencies and captured output
type testEnv struct {
	deps      *Dependencies
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	tui       *fakeTUI
	client    *api.MockClient
	baseURL   string
	optCount  int
	clipboard []string
}

func newTestEnv(t *testing.T, client *api.MockClient) *testEnv {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TMPDIR", t.TempDir())
	t.Setenv(config.EnvAPIBase, "")
	t.Setenv(config.EnvLegacyAPIBase, "")
	t.Cleanup(func() { _ = logging.Close() })

	env := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		tui:    &fakeTUI{},
		client: client,
	}
	env.deps = &Dependencies{
		NewClient: func(baseURL string, opts ...api.ClientOption) (api.BackendClient, error) {
			env.baseURL = baseURL
			env.optCount = len(opts)
			client.Base = baseURL
			return client, nil
		},
		TUI: env.tui,
		Clipboard: func(text string) error {
			env.clipboard = append(env.clipboard, text)
			return nil
		},
		Stdout: env.stdout,
		Stderr: env.stderr,
	}
	return env
}

func (e *testEnv) run(args ...string) error {
	cmd := NewRootCmd(e.deps)
	cmd.SetArgs(args)
	return cmd.Execute()
}
