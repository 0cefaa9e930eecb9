package cmd

import (
	"fmt"
	"os"
	"time"

	"github.com/jfmyers9/scrobblemood/internal/store"
	"github.com/spf13/cobra"
)

var (
	showRows int
	showCSV  string
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <snapshot>",
	Short: "Print a saved table",
	Long: `Load a snapshot written by scrobbles, features or moods and print a
summary with its first rows. Use --csv to convert it to CSV.`,
	Args: cobra.ExactArgs(1),
	RunE: runShow,
}

func init() {
	rootCmd.AddCommand(showCmd)

	showCmd.Flags().IntVarP(&showRows, "rows", "n", 10, "Rows to print")
	showCmd.Flags().StringVar(&showCSV, "csv", "", "Write the table as CSV instead (\"-\" for stdout)")
}

func runShow(cmd *cobra.Command, args []string) error {
	snap, err := store.Load(cmd.Context(), cfg.ResolvePath(args[0]))
	if err != nil {
		return fmt.Errorf("failed to load snapshot: %w", err)
	}

	if showCSV != "" {
		return writeCSVTarget(snap.Table, showCSV)
	}

	fmt.Fprintf(os.Stdout, "Kind:    %s\n", snap.Kind)
	fmt.Fprintf(os.Stdout, "Saved:   %s\n", snap.SavedAt.Local().Format(time.RFC1123))
	fmt.Fprintf(os.Stdout, "Rows:    %d\n", snap.Table.Len())
	fmt.Fprintf(os.Stdout, "Columns: %d\n\n", len(snap.Table.Columns))

	return writePreview(os.Stdout, snap.Table, showRows, previewColumnWidth)
}
