// Package report renders run outcomes and stored catalogs as aligned text
// tables for the command line.
package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"flyersync/internal/catalog"
	"flyersync/internal/pipeline"

	"github.com/mattn/go-runewidth"
)

// maxCell caps a column; longer values are cut with an ellipsis
const maxCell = 48

// Table is a header plus rows of cells
type Table struct {
	Header []string
	Rows   [][]string
}

// Write prints t as a pipe table padded by display width, so umlauts and
// accented validity texts stay aligned.
func (t Table) Write(w io.Writer) error {
	cols := len(t.Header)
	widths := make([]int, cols)
	cell := func(row []string, i int) string {
		if i >= len(row) {
			return ""
		}
		return runewidth.Truncate(row[i], maxCell, "…")
	}
	for _, row := range append([][]string{t.Header}, t.Rows...) {
		for i := 0; i < cols; i++ {
			if n := runewidth.StringWidth(cell(row, i)); n > widths[i] {
				widths[i] = n
			}
		}
	}
	for i := range widths {
		widths[i] = max(widths[i], 3)
	}

	line := func(row []string, sep bool) string {
		var sb strings.Builder
		sb.WriteString("|")
		for i := 0; i < cols; i++ {
			sb.WriteString(" ")
			if sep {
				sb.WriteString(strings.Repeat("-", widths[i]))
			} else {
				sb.WriteString(runewidth.FillRight(cell(row, i), widths[i]))
			}
			sb.WriteString(" |")
		}
		return sb.String()
	}

	lines := []string{line(t.Header, false), line(nil, true)}
	for _, row := range t.Rows {
		lines = append(lines, line(row, false))
	}
	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// WriteOutcomes prints one line per outcome of rep followed by a summary
func WriteOutcomes(w io.Writer, rep pipeline.Report) error {
	t := Table{Header: []string{"market", "language", "week", "status", "validity", "pages", "detail"}}
	for _, o := range rep.Outcomes {
		pages := ""
		if o.Pages > 0 {
			pages = strconv.Itoa(o.Pages)
		}
		detail := o.RecordID
		if o.Error != "" {
			detail = o.Error
		}
		t.Rows = append(t.Rows, []string{o.Market, o.Language, string(o.WeekType), string(o.Status), o.Validity, pages, detail})
	}
	if err := t.Write(w); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d published, %d unchanged, %d failed in %s\n",
		rep.Count(pipeline.StatusPublished),
		rep.Count(pipeline.StatusUnchanged),
		rep.Count(pipeline.StatusFailed)+rep.Count(pipeline.StatusStoreFailed),
		rep.FinishedAt.Sub(rep.StartedAt).Round(time.Millisecond),
	)
	return err
}

// WriteRecords prints the stored catalogs
func WriteRecords(w io.Writer, recs []catalog.Record) error {
	t := Table{Header: []string{"id", "market", "language", "week", "validity", "pages", "stored"}}
	for _, r := range recs {
		stored := ""
		if !r.CreatedAt.IsZero() {
			stored = r.CreatedAt.Format("2006-01-02 15:04")
		}
		t.Rows = append(t.Rows, []string{r.ID, r.Market, r.Language, string(r.WeekType), r.Validity, strconv.Itoa(len(r.Pages)), stored})
	}
	return t.Write(w)
}
