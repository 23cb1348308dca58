package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"ftpmirror/internal/config"
	"ftpmirror/internal/engine"
	"ftpmirror/internal/fileutil"
)

var fetchFolder string

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Run one ingestion cycle and exit",
	Long: `Run a single ingestion cycle for every configured folder (or one
folder with --folder) and exit. No timers are started.

For each remote entry:
- regular files are downloaded into <local_path>/<folder name>/
- directories are skipped
- anything else is skipped with a warning

The command fails if any folder's cycle fails outright (connection,
missing remote folder, listing); individual file failures are reported
but do not abort the other files.

Examples:
  # One cycle for every configured folder
  ftpmirror fetch

  # One cycle for a single folder, by name or ID
  ftpmirror fetch --folder invoices`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().StringVarP(&fetchFolder, "folder", "f", "", "Only fetch this folder (ID or name)")
	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	if fetchFolder != "" {
		folder, ok := cfg.FindFolder(fetchFolder)
		if !ok {
			return fmt.Errorf("folder '%s' not found in configuration", fetchFolder)
		}
		cfg.Folders = []config.Folder{folder}
	}

	eng := engine.New()
	results, err := eng.RunOnce(*cfg)
	if err != nil {
		return err
	}

	var downloaded, failed, skipped, failedCycles int
	for _, result := range results {
		fmt.Printf("Folder '%s' (%s):\n", result.FolderName, cfg.Server.Host)

		if result.Err != nil {
			fmt.Printf("  ✗ cycle failed: %v\n\n", result.Err)
			failedCycles++
			continue
		}

		if len(result.Outcomes) == 0 {
			fmt.Println("  (empty)")
		}
		for _, o := range result.Outcomes {
			switch o.Status {
			case engine.OutcomeDownloaded:
				fmt.Printf("  + %s (%s, sha256 %s)\n", o.Name, fileutil.FormatSize(o.Size), fileutil.ShortChecksum(o.Checksum))
			case engine.OutcomeDownloadFailed:
				fmt.Printf("  ✗ %s: %s\n", o.Name, o.Detail)
			case engine.OutcomeSkippedDirectory:
				fmt.Printf("  - %s (directory, skipped)\n", o.Name)
			default:
				fmt.Printf("  ⚠ %s (not a regular file, skipped)\n", o.Name)
			}
		}
		fmt.Println()

		downloaded += result.Downloaded()
		failed += result.Failed()
		skipped += len(result.Outcomes) - result.Downloaded() - result.Failed()
	}

	fmt.Printf("Fetch complete:\n")
	fmt.Printf("  Downloaded: %d\n", downloaded)
	fmt.Printf("  Failed:     %d\n", failed)
	fmt.Printf("  Skipped:    %d\n", skipped)

	if failedCycles > 0 {
		return fmt.Errorf("%d folder cycle(s) failed", failedCycles)
	}
	return nil
}
