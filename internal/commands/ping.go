package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/floatchat/internal/tui"
)

// NewPingCmd creates the backend health check command
func NewPingCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the backend is reachable",
		Long:  `Calls GET <base>/ and prints the backend's status message.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := setup(deps, flags)
			if err != nil {
				return err
			}

			spin := newSpinner(deps.Stderr, "Pinging "+rt.baseURL)
			spin.start()

			status, err := rt.client.Health(cmd.Context())
			if err != nil {
				spin.stopWithError()
				fmt.Fprintln(deps.Stderr, tui.FormatError(err))
				return fmt.Errorf("backend unreachable: %w", err)
			}
			if !status.OK() {
				spin.stopWithError()
				return fmt.Errorf("backend at %s reported status %q", rt.baseURL, status.Status)
			}
			spin.stopWithSuccess("Backend is up")

			fmt.Fprintf(deps.Stdout, "%s: %s\n", rt.baseURL, status.Message)
			return nil
		},
	}
}
