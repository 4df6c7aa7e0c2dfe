// Package commands provides CLI commands for floatchat.
package commands

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/diogo/floatchat/internal/api"
	"github.com/diogo/floatchat/internal/config"
	"github.com/diogo/floatchat/internal/logging"
)

var (
	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"
)

// rootFlags holds the values bound to the root command's flags
type rootFlags struct {
	// Persistent
	apiBase  string
	verbose  bool
	session  string
	forceSQL bool

	// One-shot
	output  string
	file    string
	raw     bool
	jsonOut bool
}

// runtime is the state every backend-facing command starts from
type runtime struct {
	cfg     config.Config
	baseURL string
	client  api.BackendClient
}

// NewRootCmd creates the floatchat command tree
func NewRootCmd(deps *Dependencies) *cobra.Command {
	if deps == nil {
		deps = NewDependencies()
	}
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "floatchat [prompt]",
		Short: "Terminal chat client for the ocean float data assistant",
		Long: `floatchat sends natural-language questions to a data-assistant backend
and shows the reply as text, a result table, a map plot and the SQL query
the backend ran.

Examples:
  floatchat chat                              Start interactive chat
  floatchat "List all profiles"               Send a single question
  floatchat -f question.md                    Read the question from a file
  cat question.md | floatchat                 Read the question from stdin
  floatchat "Deepest measurement" --json      Print the normalized reply as JSON
  floatchat ping                              Check the backend is up
  floatchat demo-backend                      Serve canned replies on :8000`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Check for version flag
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(deps.Stdout, "floatchat %s (built %s)\n", Version, BuildTime)
				return nil
			}

			prompt, ok, err := readPrompt(deps.Stdin, flags.file, args)
			if err != nil {
				return err
			}
			if !ok {
				// No input - show help
				return cmd.Help()
			}

			rt, err := setup(deps, flags)
			if err != nil {
				return err
			}
			return runQuery(cmd.Context(), deps, flags, rt, prompt)
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVar(&flags.apiBase, "api-base", "", "Backend base address (default http://127.0.0.1:8000)")
	cmd.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&flags.session, "session", "", `Session id sent to the backend ("new" generates one)`)
	cmd.PersistentFlags().BoolVar(&flags.forceSQL, "force-sql", false, "Ask the backend to answer with a SQL query")

	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Save reply to file")
	cmd.Flags().StringVarP(&flags.file, "file", "f", "", "Read prompt from file")
	cmd.Flags().BoolVar(&flags.raw, "raw", false, "Print only the reply text")
	cmd.Flags().BoolVar(&flags.jsonOut, "json", false, "Print the reply as JSON")
	cmd.Flags().BoolP("version", "v", false, "Show version and exit")
	cmd.MarkFlagsMutuallyExclusive("raw", "json")

	cmd.SetOut(deps.Stdout)
	cmd.SetErr(deps.Stderr)

	// Add subcommands
	cmd.AddCommand(NewChatCmd(deps, flags))
	cmd.AddCommand(NewPingCmd(deps, flags))
	cmd.AddCommand(NewConfigCmd(deps, flags))
	cmd.AddCommand(NewDemoBackendCmd(deps, flags))

	return cmd
}

// Execute runs the root command
func Execute() {
	deps := NewDependencies()
	if err := NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintf(deps.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// readPrompt picks the prompt from -f, piped stdin or the positional
// argument, in that order. ok is false when none was given.
func readPrompt(stdin io.Reader, file string, args []string) (string, bool, error) {
	// Check for file input
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", false, fmt.Errorf("failed to read file: %w", err)
		}
		return string(data), true, nil
	}

	// Check for stdin
	if hasPipedInput(stdin) {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", false, fmt.Errorf("failed to read stdin: %w", err)
		}
		if strings.TrimSpace(string(data)) != "" || len(args) == 0 {
			return string(data), true, nil
		}
	}

	// Check for positional argument
	if len(args) > 0 {
		return args[0], true, nil
	}

	return "", false, nil
}

// hasPipedInput reports whether r carries input that did not come from a terminal
func hasPipedInput(r io.Reader) bool {
	if r == nil {
		return false
	}
	f, ok := r.(*os.File)
	if !ok {
		return true
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

// loadConfig reads the config file and applies persistent flag overrides
func loadConfig(deps *Dependencies, flags *rootFlags) config.Config {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v, using defaults\n", err)
	}

	if flags.verbose {
		cfg.Verbose = true
	}
	if flags.forceSQL {
		cfg.ForceSQL = true
	}
	switch flags.session {
	case "":
	case "new":
		cfg.SessionID = uuid.NewString()
	default:
		cfg.SessionID = flags.session
	}

	return cfg
}

// setup resolves configuration, starts logging and builds the backend client
func setup(deps *Dependencies, flags *rootFlags) (*runtime, error) {
	cfg := loadConfig(deps, flags)

	baseURL, err := config.ResolveBaseURL(flags.apiBase, cfg)
	if err != nil {
		return nil, err
	}

	if err := logging.Init(cfg.LogFile, cfg.Verbose); err != nil {
		fmt.Fprintf(deps.Stderr, "Warning: %v\n", err)
	}
	logging.Logger().Debug("configuration resolved",
		"base_url", baseURL,
		"session_id", cfg.SessionID,
		"force_sql", cfg.ForceSQL,
	)

	clientOpts := []api.ClientOption{
		api.WithTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second),
	}
	if cfg.SessionID != "" {
		clientOpts = append(clientOpts, api.WithSessionID(cfg.SessionID))
	}
	if cfg.ForceSQL {
		clientOpts = append(clientOpts, api.WithForceSQL(true))
	}

	client, err := deps.NewClient(baseURL, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &runtime{cfg: cfg, baseURL: baseURL, client: client}, nil
}
