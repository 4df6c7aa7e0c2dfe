package commands

import (
	"io"
	"os"

	"github.com/atotto/clipboard"

	"github.com/diogo/floatchat/internal/api"
	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/session"
	"github.com/diogo/floatchat/internal/tui"
)

// TUIInterface defines the methods required from the TUI package.
type TUIInterface interface {
	RunChat(ctrl *session.Controller, opts tui.Options) error
	RunConfig(cfg config.Config, baseURL string) error
}

// Dependencies holds the external dependencies for the commands.
// This allows for dependency injection and easier testing.
type Dependencies struct {
	// NewClient builds the backend client for a resolved base address.
	NewClient func(baseURL string, opts ...api.ClientOption) (api.BackendClient, error)

	// TUI is the terminal user interface.
	TUI TUIInterface

	// Clipboard copies text to the system clipboard.
	Clipboard func(text string) error

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// DefaultTUI is the production implementation of TUIInterface.
type DefaultTUI struct{}

func (d *DefaultTUI) RunChat(ctrl *session.Controller, opts tui.Options) error {
	return tui.RunChat(ctrl, opts)
}

func (d *DefaultTUI) RunConfig(cfg config.Config, baseURL string) error {
	return tui.RunConfig(cfg, baseURL)
}

// NewDependencies creates a new Dependencies struct with default implementations.
func NewDependencies() *Dependencies {
	return &Dependencies{
		NewClient: func(baseURL string, opts ...api.ClientOption) (api.BackendClient, error) {
			return api.NewClient(baseURL, opts...)
		},
		TUI:       &DefaultTUI{},
		Clipboard: clipboard.WriteAll,
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
	}
}
