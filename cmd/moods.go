package cmd

import (
	"fmt"
	"os"
	"sort"

	"github.com/jfmyers9/scrobblemood/internal/moods"
	"github.com/jfmyers9/scrobblemood/internal/store"
	"github.com/spf13/cobra"
)

var (
	moodsWords  string
	moodsColumn string
	moodsOut    string
	moodsCSV    string
	moodsList   bool
)

// moodsCmd represents the moods command
var moodsCmd = &cobra.Command{
	Use:   "moods",
	Short: "Restrict a word list to Echo Nest mood terms",
	Long: `Fetch the Echo Nest mood vocabulary and keep only the rows of a CSV
word list whose word is a mood term. Kept rows retain all their columns and
their original order.

With --list the vocabulary itself is printed, one term per line.`,
	RunE: runMoods,
}

func init() {
	rootCmd.AddCommand(moodsCmd)

	moodsCmd.Flags().StringVar(&moodsWords, "words", "", "CSV word list with a header row")
	moodsCmd.Flags().StringVar(&moodsColumn, "column", "word", "Column holding the words")
	moodsCmd.Flags().StringVarP(&moodsOut, "out", "o", "", "Snapshot file to save the filtered list to")
	moodsCmd.Flags().StringVar(&moodsCSV, "csv", "-", "Write the filtered list as CSV (\"-\" for stdout, empty to skip)")
	moodsCmd.Flags().BoolVar(&moodsList, "list", false, "Print the mood vocabulary and exit")
}

func runMoods(cmd *cobra.Command, args []string) error {
	if err := cfg.RequireEchoNest(); err != nil {
		return err
	}
	if !moodsList && moodsWords == "" {
		return fmt.Errorf("--words is required")
	}

	client, err := newEchoNestClient(echoNestOverrides{})
	if err != nil {
		return fmt.Errorf("failed to create Echo Nest client: %w", err)
	}
	filter := moods.NewFilter(client, logger)

	if moodsList {
		vocab, err := filter.Vocabulary(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to fetch mood terms: %w", err)
		}
		terms := make([]string, 0, len(vocab))
		for t := range vocab {
			terms = append(terms, t)
		}
		sort.Strings(terms)
		for _, t := range terms {
			fmt.Fprintln(os.Stdout, t)
		}
		return nil
	}

	table, err := filter.Apply(cmd.Context(), moodsWords, moodsColumn)
	if err != nil {
		return fmt.Errorf("failed to filter word list: %w", err)
	}

	if moodsOut != "" {
		if err := store.Save(cmd.Context(), cfg.ResolvePath(moodsOut), store.KindMoods, table); err != nil {
			return fmt.Errorf("failed to save snapshot: %w", err)
		}
	}
	if err := writeCSVTarget(table, moodsCSV); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
