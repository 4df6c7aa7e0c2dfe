package commands

import (
	"errors"
	"strings"
	"testing"

	"github.com/diogo/floatchat/internal/api"
	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/models"
	"github.com/diogo/floatchat/internal/render"
)

func TestChatCommand(t *testing.T) {
	cmd := NewChatCmd(&Dependencies{}, &rootFlags{})

	if cmd.Use != "chat" {
		t.Errorf("Expected use 'chat', got %s", cmd.Use)
	}
	if cmd.Short == "" || cmd.Long == "" {
		t.Error("descriptions should not be empty")
	}
}

func TestChatCommand_StartsTUI(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{HealthVal: &api.HealthStatus{Status: "ok", Message: "up"}})
	defer render.SetTUITheme("abyss")

	cfg := config.DefaultConfig()
	cfg.Notify = true
	cfg.TUITheme = "reef"
	cfg.Markdown.Style = "light"
	if err := config.SaveConfig(cfg); err != nil {
		t.Fatal(err)
	}

	if err := env.run("chat"); err != nil {
		t.Fatalf("chat failed: %v", err)
	}

	if !env.tui.chatCalled {
		t.Fatal("chat should start the TUI")
	}
	if !env.tui.chatOpts.Notify || env.tui.chatOpts.Markdown.Style != "light" {
		t.Errorf("TUI options = %+v", env.tui.chatOpts)
	}
	if env.tui.chatCtrl.Layout() != models.LayoutInitial {
		t.Error("chat should start from a fresh session")
	}
	if render.GetTUITheme().Name != "reef" {
		t.Errorf("theme = %s, want reef", render.GetTUITheme().Name)
	}
	if !strings.Contains(env.stderr.String(), "Connected") {
		t.Error("successful probe should report Connected")
	}
}

func TestChatCommand_UnreachableBackendStillStarts(t *testing.T) {
	env := newTestEnv(t, &api.MockClient{HealthErr: errors.New("connection refused")})

	if err := env.run("chat"); err != nil {
		t.Fatalf("chat failed: %v", err)
	}
	if !env.tui.chatCalled {
		t.Error("a failed probe must not prevent the TUI from starting")
	}
	if !strings.Contains(env.stderr.String(), "connection refused") {
		t.Errorf("stderr should show the probe failure, got %q", env.stderr.String())
	}
}
