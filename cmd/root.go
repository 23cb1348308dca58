package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	Version    = "dev"
	configFile string
)

var rootCmd = &cobra.Command{
	Use:     "ftpmirror",
	Short:   "FTP folder monitoring and ingestion tool",
	Version: Version,
	Long: `ftpmirror watches folders on an FTP server and mirrors their files into
a local directory tree. Each monitored folder polls on its own schedule;
new and changed files are downloaded into <local_path>/<folder name>/ and
every operation is recorded in a bounded log.`,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	defaultConfig := "ftpmirror.yaml"
	if envConfig := os.Getenv("FTPMIRROR_CONFIG"); envConfig != "" {
		defaultConfig = envConfig
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", defaultConfig, "Path to configuration file (or set FTPMIRROR_CONFIG env var)")
}
