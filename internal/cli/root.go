package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/cowsbulls-go/internal/identity"
)

var (
	cfg    *Config
	client *Client
	ids    identity.Store
)

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg = DefaultConfig()

	rootCmd := &cobra.Command{
		Use:   "cbgame",
		Short: "CLI tool for the cows and bulls game API",
		Long: `cbgame is a CLI tool for interacting with the cows and bulls JSON API.

It supports all API operations including session management, guessing,
and real-time SSE event streaming. The player id handed out when a
session is created or joined is remembered per session code, so later
commands act as the same player.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			client = NewClient(cfg.ServerURL)
			ids = identity.NewFileStore(cfg.IdentityFile)
			return nil
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ServerURL, "server", cfg.ServerURL, "Server URL (env: CBGAME_SERVER)")
	rootCmd.PersistentFlags().StringVar(&cfg.IdentityFile, "identity-file", cfg.IdentityFile, "Identity file path (env: CBGAME_IDENTITY_FILE)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newSessionCmd())
	rootCmd.AddCommand(newGameCmd())
	rootCmd.AddCommand(newEventsCmd())
	rootCmd.AddCommand(newHealthCmd())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
