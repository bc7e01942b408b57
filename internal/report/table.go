// Package report renders batch scoring results for humans.
package report

import (
	"fmt"
	"io"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/kailas-cloud/resumatch/internal/domain/batch"
)

const maxFileWidth = 40

// Table writes rows as an aligned text table with the columns
// File, TF-IDF, BERT, Final and Match, in input order.
func Table(w io.Writer, rows []batch.Row) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No resumes scored.")
		return err //nolint:wrapcheck // writer error is returned as is
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTF-IDF\tBERT\tFINAL\tMATCH")
	fmt.Fprintln(tw, "----\t------\t----\t-----\t-----")

	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			truncate(r.ID, maxFileWidth),
			cell(r.Lexical),
			cell(r.Semantic),
			cell(r.Final),
			r.Label,
		)
	}

	return tw.Flush() //nolint:wrapcheck // writer error is returned as is
}

// cell prints scores with two decimals and anything else verbatim.
func cell(v any) string {
	if f, ok := v.(float64); ok {
		return fmt.Sprintf("%.2f", f)
	}
	return fmt.Sprint(v)
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
