package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jfmyers9/scrobblemood/internal/dataset"
	"github.com/mattn/go-runewidth"
)

// previewColumnWidth is the display width of each column in a preview.
const previewColumnWidth = 24

// writePreview prints the first rows of t as fixed-width columns.
func writePreview(w io.Writer, t *dataset.Table, rows, width int) error {
	if rows <= 0 || len(t.Columns) == 0 {
		return nil
	}

	header := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = padToWidth(col, width)
	}
	if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(header, "  "), " ")); err != nil {
		return err
	}

	shown := t.Rows
	if len(shown) > rows {
		shown = shown[:rows]
	}
	for _, r := range shown {
		cells := make([]string, len(t.Columns))
		for i, col := range t.Columns {
			cells[i] = padToWidth(r[col], width)
		}
		if _, err := fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " ")); err != nil {
			return err
		}
	}

	if rest := t.Len() - len(shown); rest > 0 {
		if _, err := fmt.Fprintf(w, "... %d more rows\n", rest); err != nil {
			return err
		}
	}
	return nil
}

// writeCSVTarget writes t as CSV to path, or to stdout when path is "-".
func writeCSVTarget(t *dataset.Table, path string) error {
	if path == "" {
		return nil
	}
	if path == "-" {
		return t.WriteCSV(os.Stdout)
	}
	return t.WriteCSVFile(path)
}

// padToWidth pads or truncates text to exactly the specified display width.
// Uses runewidth to correctly handle Unicode characters including emoji and CJK.
// If text is longer than width, it's truncated with "..." suffix.
// If text is shorter, it's padded with spaces.
func padToWidth(text string, width int) string {
	if width <= 0 {
		return text
	}

	currentWidth := runewidth.StringWidth(text)

	if currentWidth > width {
		ellipsis := "..."
		ellipsisWidth := runewidth.StringWidth(ellipsis)

		if width <= ellipsisWidth {
			return runewidth.Truncate(ellipsis, width, "")
		}

		// Wide runes can leave the truncated text one cell short
		result := runewidth.Truncate(text, width-ellipsisWidth, "") + ellipsis
		if resultWidth := runewidth.StringWidth(result); resultWidth < width {
			return result + strings.Repeat(" ", width-resultWidth)
		}
		return result
	}

	return text + strings.Repeat(" ", width-currentWidth)
}
