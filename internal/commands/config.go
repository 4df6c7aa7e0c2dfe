package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/diogo/floatchat/internal/config"
)

// NewConfigCmd creates a new config command
func NewConfigCmd(deps *Dependencies, flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Open configuration menu",
		Long: `Interactive menu to configure floatchat settings.

Subcommands print or change settings without the menu.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(deps, flags)
			baseURL, err := config.ResolveBaseURL(flags.apiBase, cfg)
			if err != nil {
				return err
			}
			return deps.TUI.RunConfig(cfg, baseURL)
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the current settings as JSON",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				// Saved settings only; flag overrides such as --session new are not shown
				if err := config.LoadEnv(); err != nil {
					fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
				}
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				baseURL, err := config.ResolveBaseURL(flags.apiBase, cfg)
				if err != nil {
					return err
				}

				data, err := json.MarshalIndent(cfg, "", "  ")
				if err != nil {
					return fmt.Errorf("failed to encode config: %w", err)
				}
				fmt.Fprintln(deps.Stdout, string(data))
				fmt.Fprintf(deps.Stdout, "\nResolved backend: %s\n", baseURL)
				return nil
			},
		},
		&cobra.Command{
			Use:   "set <key> <value>",
			Short: "Change a single setting",
			Long: fmt.Sprintf(`Change a single setting and save the config file.

Keys: %s`, strings.Join(config.SettableKeys(), ", ")),
			Args: cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				if err := cfg.Set(args[0], args[1]); err != nil {
					return err
				}
				if err := config.SaveConfig(cfg); err != nil {
					return err
				}
				fmt.Fprintf(deps.Stdout, "%s set to %q\n", args[0], args[1])
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the config file path",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := config.GetConfigPath()
				if err != nil {
					return err
				}
				fmt.Fprintln(deps.Stdout, path)
				return nil
			},
		},
	)

	return cmd
}
