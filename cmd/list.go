package cmd

import (
	"fmt"
	"os"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"ftpmirror/internal/config"
	"ftpmirror/internal/fileutil"
	"ftpmirror/internal/remote"
)

var (
	listFolder string
	listLong   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List remote folder contents without downloading",
	Long: `Connect to the configured FTP server and list the contents of every
monitored folder (or one folder with --folder). Nothing is downloaded.

Examples:
  # List every configured folder
  ftpmirror list

  # List one folder with sizes and entry types
  ftpmirror list --folder invoices --long`,
	RunE: runList,
}

func init() {
	listCmd.Flags().StringVarP(&listFolder, "folder", "f", "", "Only list this folder (ID or name)")
	listCmd.Flags().BoolVarP(&listLong, "long", "l", false, "Show detailed information")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return err
	}

	folders := cfg.Folders
	if listFolder != "" {
		folder, ok := cfg.FindFolder(listFolder)
		if !ok {
			return fmt.Errorf("folder '%s' not found in configuration", listFolder)
		}
		folders = []config.Folder{folder}
	}

	session, err := remote.Dial(cfg.Server)
	if err != nil {
		return err
	}
	defer session.Close()

	for i, folder := range folders {
		if i > 0 {
			fmt.Println()
		}
		if err := listOneFolder(session, folder); err != nil {
			return err
		}
	}
	return nil
}

func listOneFolder(session *remote.Session, folder config.Folder) error {
	if err := session.ChangeDir(folder.RemotePath); err != nil {
		return fmt.Errorf("folder '%s': %w", folder.Name, err)
	}

	entries, err := session.List()
	if err != nil {
		return fmt.Errorf("folder '%s': %w", folder.Name, err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name < entries[j].Name
	})

	fmt.Printf("Folder '%s' (%s, %d entries):\n\n", folder.Name, folder.RemotePath, len(entries))

	if len(entries) == 0 {
		fmt.Println("  (empty)")
		return nil
	}

	if listLong {
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "NAME\tTYPE\tSIZE")
		fmt.Fprintln(w, "----\t----\t----")
		for _, e := range entries {
			size := ""
			if e.Kind == remote.KindFile {
				size = fileutil.FormatSize(e.Size)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", e.Name, e.Kind, size)
		}
		w.Flush()
	} else {
		for _, e := range entries {
			fmt.Printf("  %s\n", e.Name)
		}
	}

	return nil
}
