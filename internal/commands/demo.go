package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/diogo/floatchat/internal/logging"
	"github.com/diogo/floatchat/internal/mockbackend"
)

// NewDemoBackendCmd creates the command serving canned replies locally
func NewDemoBackendCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	var (
		addr     string
		fixtures string
		origins  []string
	)

	cmd := &cobra.Command{
		Use:   "demo-backend",
		Short: "Serve canned chat replies for demos and testing",
		Long: `Starts a local HTTP server that speaks the backend's /chat contract and
answers from a YAML fixture file. Without --fixtures a built-in set is used.

  floatchat demo-backend &
  floatchat "List all profiles"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logging.InitWriter(deps.Stderr, flags.verbose)

			set, err := mockbackend.LoadFixtures(fixtures)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(deps.Stderr, "Demo backend listening on %s (%d fixtures, Ctrl+C to stop)\n", addr, len(set.Fixtures))
			return mockbackend.NewServer(set, origins...).ListenAndServe(ctx, addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8000", "Listen address")
	cmd.Flags().StringVar(&fixtures, "fixtures", "", "YAML fixture file (default: built-in set)")
	cmd.Flags().StringSliceVar(&origins, "cors-origin", nil, "Allowed CORS origin (repeatable, default any)")

	return cmd
}
