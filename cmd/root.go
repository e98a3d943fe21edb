package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/Deepak-techy/QuickLink-Url-Shortner/internal/config"
)

// Cfg holds the loaded configuration, shared by all commands.
var Cfg *config.Config

// RootCmd is the base command. Subcommands (run-server, create, stats,
// migrate) register themselves from their own init functions.
var RootCmd = &cobra.Command{
	Use:   "quicklink",
	Short: "QuickLink URL shortener",
	Long: `QuickLink shortens long URLs into compact codes and resolves them back,
optionally gated behind a password or an expiration date.`,
}

// Execute runs the CLI. Called from main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
}

func initConfig() {
	var err error
	Cfg, err = config.LoadConfig()
	if err != nil {
		log.Printf("Warning: problem loading configuration: %v. Using default values.", err)
	}
}
