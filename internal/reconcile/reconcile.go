// Package reconcile classifies freshly observed postings against the prior
// snapshot and decides what the next persisted snapshot looks like.
package reconcile

import (
	"cfptracker/internal/domain"
)

// Statuses lists the life-cycle states in reporting order.
var Statuses = []domain.Status{
	domain.StatusNew,
	domain.StatusUpdated,
	domain.StatusUnmodified,
	domain.StatusDeleted,
}

// Classification groups postings by life-cycle status for one run.
type Classification struct {
	New        []domain.Posting
	Updated    []domain.Posting
	Unmodified []domain.Posting
	Deleted    []domain.Posting
}

// Bucket returns the postings classified under the given status.
func (c Classification) Bucket(status domain.Status) []domain.Posting {
	switch status {
	case domain.StatusNew:
		return c.New
	case domain.StatusUpdated:
		return c.Updated
	case domain.StatusUnmodified:
		return c.Unmodified
	case domain.StatusDeleted:
		return c.Deleted
	}
	return nil
}

// Classify partitions the union of fresh and prior keys into the four
// life-cycle buckets. A key only in fresh is NEW, only in prior is DELETED;
// a key in both is UNMODIFIED when the postings are content-equal and
// UPDATED otherwise, with content taken from fresh. Every key lands in
// exactly one bucket. No ordering is implied here; OrderForWrite imposes it.
func Classify(fresh, prior map[string]domain.Posting) Classification {
	var c Classification
	for key, posting := range fresh {
		prev, known := prior[key]
		switch {
		case !known:
			c.New = append(c.New, posting)
		case posting.Equal(prev):
			c.Unmodified = append(c.Unmodified, posting)
		default:
			c.Updated = append(c.Updated, posting)
		}
	}
	for key, posting := range prior {
		if _, still := fresh[key]; !still {
			c.Deleted = append(c.Deleted, posting)
		}
	}
	return c
}
