package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/render"
	"github.com/diogo/floatchat/internal/session"
	"github.com/diogo/floatchat/internal/tui"
)

// healthProbeTimeout bounds the connectivity check before the TUI starts
const healthProbeTimeout = 5 * time.Second

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the data assistant.

Replies with tables or locations open the results panel. Press Tab to show
the SQL query, Alt+Up/Alt+Down to pick a reply, Ctrl+Y to copy it and
/export to save the transcript. Type 'exit', 'quit', or press Ctrl+C to end the session.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(deps, flags)
			if err != nil {
				return err
			}
			return runChat(cmd.Context(), deps, rt)
		},
	}
}

func runChat(ctx context.Context, deps *Dependencies, rt *runtime) error {
	defer logging.Close()

	if !render.SetTUITheme(rt.cfg.TUITheme) {
		logging.Logger().Warn("unknown TUI theme, using default", "theme", rt.cfg.TUITheme)
	}
	tui.UpdateTheme()

	// A failed probe is not fatal: each failed exchange shows up in the chat
	spin := newSpinner(deps.Stderr, "Connecting to "+rt.baseURL)
	spin.start()
	probeCtx, cancel := context.WithTimeout(ctx, healthProbeTimeout)
	status, err := rt.client.Health(probeCtx)
	cancel()
	switch {
	case err != nil:
		spin.stopWithError()
		fmt.Fprintln(deps.Stderr, tui.FormatError(err))
		logging.Logger().Warn("health probe failed", "base_url", rt.baseURL, "err", err)
	case !status.OK():
		spin.stopWithError()
		fmt.Fprintf(deps.Stderr, "Warning: backend at %s did not report ok\n", rt.baseURL)
	default:
		spin.stopWithSuccess("Connected")
	}

	ctrl := session.New(rt.client)
	return deps.TUI.RunChat(ctrl, tui.Options{
		Markdown:  rt.cfg.Markdown,
		Notify:    rt.cfg.Notify,
		ExportDir: ".",
	})
}
