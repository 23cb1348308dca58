package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"ftpmirror/internal/config"
	"ftpmirror/internal/engine"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the mirror daemon",
	Long: `Run the mirror daemon in the foreground. Every configured folder is
polled on its own interval and runs a first ingestion cycle immediately.

The configuration file is watched for changes; a valid edit replaces the
running configuration, an invalid one is reported and ignored.

Examples:
  # Run with the default configuration file
  ftpmirror run

  # Run with an explicit configuration file
  ftpmirror run --config /etc/ftpmirror.yaml`,
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	eng := engine.New()
	if err := eng.SubmitConfig(*cfg); err != nil {
		return fmt.Errorf("failed to apply configuration: %w", err)
	}
	fmt.Printf("Monitoring %d folder(s) on %s, mirroring into %s\n",
		len(cfg.Folders), cfg.Server.Host, cfg.Server.LocalPath)

	config.Watch(configFile, func(next *config.Config, err error) {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Configuration reload failed: %v\n", err)
			return
		}
		if err := eng.SubmitConfig(*next); err != nil {
			fmt.Fprintf(os.Stderr, "Configuration reload rejected: %v\n", err)
			return
		}
		fmt.Printf("Configuration reloaded: %d folder(s)\n", len(next.Folders))
	})

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Fprintln(os.Stderr, "\nShutting down, letting in-flight cycles finish...")
	eng.Stop()
	return nil
}
