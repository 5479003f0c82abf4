package reconcile

import (
	"slices"
	"sort"

	"cfptracker/internal/domain"
)

// NeedsWrite reports whether the snapshot on disk must be replaced. A run
// where every posting came back unmodified leaves the prior file untouched.
func (c Classification) NeedsWrite() bool {
	return len(c.New) > 0 || len(c.Updated) > 0 || len(c.Deleted) > 0
}

// OrderForWrite produces the exact persisted ordering: NEW, then UPDATED,
// then UNMODIFIED. Within each group deadlines ascend and postings without
// a deadline sort after all postings that have one. Deleted postings are
// never persisted.
func (c Classification) OrderForWrite() []domain.Posting {
	out := make([]domain.Posting, 0, len(c.New)+len(c.Updated)+len(c.Unmodified))
	for _, group := range [][]domain.Posting{c.New, c.Updated, c.Unmodified} {
		out = append(out, sortByDeadline(group)...)
	}
	return out
}

func sortByDeadline(group []domain.Posting) []domain.Posting {
	sorted := slices.Clone(group)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		switch {
		case a.HasDeadline() && !b.HasDeadline():
			return true
		case !a.HasDeadline() && b.HasDeadline():
			return false
		case !a.Deadline.Equal(b.Deadline):
			return a.Deadline.Before(b.Deadline)
		}
		// Deadline ties break on the identity key so the file stays
		// byte-identical between runs with the same content.
		keyA, _ := a.Key()
		keyB, _ := b.Key()
		return keyA < keyB
	})
	return sorted
}
