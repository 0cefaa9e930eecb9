// Package moods restricts a word list to the mood terms Echo Nest accepts.
package moods

import (
	"context"
	"fmt"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	"github.com/jfmyers9/scrobblemood/pkg/echonest"
	"github.com/rs/zerolog"
)

// TermLister returns the vocabulary for a term type.
type TermLister interface {
	ListTerms(ctx context.Context, termType string) ([]string, error)
}

// Filter joins word lists against the service's mood vocabulary.
type Filter struct {
	lister TermLister
	logger zerolog.Logger
}

// NewFilter creates a Filter.
func NewFilter(lister TermLister, logger zerolog.Logger) *Filter {
	return &Filter{
		lister: lister,
		logger: logger.With().Str("component", "moods").Logger(),
	}
}

// Vocabulary fetches the mood terms as a set.
func (f *Filter) Vocabulary(ctx context.Context) (map[string]struct{}, error) {
	terms, err := f.lister.ListTerms(ctx, echonest.TermMood)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch mood vocabulary: %w", err)
	}

	vocab := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		vocab[t] = struct{}{}
	}
	return vocab, nil
}

// Apply loads the CSV word list at path and keeps the rows whose column
// value is a known mood term. Rows keep their data and original order.
func (f *Filter) Apply(ctx context.Context, path, column string) (*dataset.Table, error) {
	words, err := dataset.ReadCSV(path)
	if err != nil {
		return nil, err
	}
	if !words.HasColumn(column) {
		return nil, fmt.Errorf("word list %s has no column %q", path, column)
	}

	vocab, err := f.Vocabulary(ctx)
	if err != nil {
		return nil, err
	}

	out := Restrict(words, column, vocab)
	f.logger.Info().
		Int("vocabulary", len(vocab)).
		Int("words", words.Len()).
		Int("kept", out.Len()).
		Msg("Filtered word list")

	return out, nil
}

// Restrict keeps the rows of words whose column value is in vocab.
func Restrict(words *dataset.Table, column string, vocab map[string]struct{}) *dataset.Table {
	return words.Filter(func(r dataset.Row) bool {
		_, ok := vocab[r[column]]
		return ok
	})
}
