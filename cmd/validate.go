package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ftpmirror/internal/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load, normalize and validate the configuration file, then print the
effective configuration. Exits non-zero when the configuration is
invalid.`,
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	fmt.Printf("Configuration %s is valid\n\n", configFile)
	fmt.Printf("Server:     %s\n", cfg.Server.Addr())
	fmt.Printf("Username:   %s\n", cfg.Server.Username)
	fmt.Printf("Local path: %s\n", cfg.Server.LocalPath)
	fmt.Printf("\nFolders (%d):\n\n", len(cfg.Folders))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tREMOTE PATH\tINTERVAL")
	fmt.Fprintln(w, "--\t----\t-----------\t--------")
	for _, f := range cfg.Folders {
		fmt.Fprintf(w, "%s\t%s\t%s\t%dm\n", f.ID, f.Name, f.RemotePath, f.IntervalMinutes)
	}
	w.Flush()

	return nil
}
