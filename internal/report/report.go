// Package report renders human-readable outcomes of reconciliation runs.
package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"

	"cfptracker/internal/domain"
	"cfptracker/internal/reconcile"
)

// Digest renders the outcome of one run: a count per status in fixed order,
// the write outcome, and the full content of every deleted posting — after
// this run a deleted posting no longer exists anywhere else.
func Digest(c reconcile.Classification, wrote bool, rows int, dateLayout string) string {
	var b strings.Builder

	for _, status := range reconcile.Statuses {
		fmt.Fprintf(&b, "%-12s %d\n", status, len(c.Bucket(status)))
	}

	if wrote {
		fmt.Fprintf(&b, "wrote %d %s to the snapshot\n", rows, pluralize(rows, "row", "rows"))
	} else {
		b.WriteString("snapshot unchanged, nothing written\n")
	}

	if len(c.Deleted) > 0 {
		fmt.Fprintf(&b, "deleted postings (%d):\n", len(c.Deleted))
		b.WriteString(Table(c.Deleted, dateLayout))
	}

	return b.String()
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// Table renders postings as a column-aligned text table. Column widths are
// computed with runewidth so wide glyphs in titles do not skew alignment.
func Table(postings []domain.Posting, dateLayout string) string {
	rows := make([][]string, 0, len(postings)+1)
	rows = append(rows, []string{"Type", "Name", "Title", "Summary", "Deadline", "TitleLink", "ActionsLink"})

	for _, p := range postings {
		deadline := "-"
		if p.HasDeadline() {
			deadline = p.Deadline.Format(dateLayout)
		}
		rows = append(rows, []string{
			string(p.Type),
			p.Name,
			p.Title,
			p.Summary,
			deadline,
			p.TitleLink,
			p.ActionsLink,
		})
	}

	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for i, cell := range row {
			if w := runewidth.StringWidth(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for _, row := range rows {
		for i, cell := range row {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(row)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-runewidth.StringWidth(cell)))
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
