package ports

import (
	"context"
	"time"

	"cfptracker/internal/domain"
)

// PostingSource pulls the current set of call-for-papers postings from
// the tracked pages.
type PostingSource interface {
	FetchPostings(ctx context.Context) ([]domain.Posting, error)
}

// SnapshotRepository loads the prior snapshot and replaces it wholesale.
type SnapshotRepository interface {
	Load() (map[string]domain.Posting, error)
	Save(postings []domain.Posting) error
}

// Notifier publishes the human-readable run digest to an external channel.
type Notifier interface {
	PublishDigest(ctx context.Context, digest string) error
}

// Scheduler controls when runs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
