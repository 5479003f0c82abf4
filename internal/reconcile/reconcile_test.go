package reconcile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfptracker/internal/domain"
)

func posting(name, title string, deadline time.Time) domain.Posting {
	return domain.Posting{
		Type:     domain.MediaJournal,
		Name:     name,
		Title:    title,
		Deadline: deadline,
	}
}

func keyed(postings ...domain.Posting) map[string]domain.Posting {
	m := make(map[string]domain.Posting, len(postings))
	for _, p := range postings {
		key, err := p.Key()
		if err != nil {
			panic(err)
		}
		m[key] = p
	}
	return m
}

func TestClassifyEmptyPriorAllNew(t *testing.T) {
	t.Parallel()

	fresh := keyed(
		posting("A", "CFP: A", time.Time{}),
		posting("B", "CFP: B", time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)),
	)

	c := Classify(fresh, map[string]domain.Posting{})

	assert.Len(t, c.New, 2)
	assert.Empty(t, c.Updated)
	assert.Empty(t, c.Unmodified)
	assert.Empty(t, c.Deleted)
}

func TestClassifyContentEqualIsUnmodified(t *testing.T) {
	t.Parallel()

	p := posting("A", "CFP: A", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	c := Classify(keyed(p), keyed(p))

	assert.Empty(t, c.New)
	assert.Empty(t, c.Updated)
	assert.Len(t, c.Unmodified, 1)
	assert.Empty(t, c.Deleted)
}

func TestClassifyChangedContentIsUpdatedFromFresh(t *testing.T) {
	t.Parallel()

	prior := posting("A", "CFP: A", time.Date(2025, 3, 14, 0, 0, 0, 0, time.UTC))
	fresh := prior
	fresh.Summary = "extended deadline"

	c := Classify(keyed(fresh), keyed(prior))

	require.Len(t, c.Updated, 1)
	assert.Equal(t, "extended deadline", c.Updated[0].Summary)
	assert.Empty(t, c.New)
	assert.Empty(t, c.Unmodified)
	assert.Empty(t, c.Deleted)
}

func TestClassifyGoneKeyIsDeletedFromPrior(t *testing.T) {
	t.Parallel()

	prior := posting("A", "CFP: A", time.Time{})
	c := Classify(map[string]domain.Posting{}, keyed(prior))

	require.Len(t, c.Deleted, 1)
	assert.Equal(t, "A", c.Deleted[0].Name)
}

// Every key in the union of fresh and prior lands in exactly one bucket.
func TestClassifyPartitionCompleteness(t *testing.T) {
	t.Parallel()

	unchanged := posting("A", "CFP: A", time.Time{})
	changedPrior := posting("B", "CFP: B", time.Time{})
	changedFresh := changedPrior
	changedFresh.Summary = "new text"
	added := posting("C", "CFP: C", time.Time{})
	removed := posting("D", "CFP: D", time.Time{})

	fresh := keyed(unchanged, changedFresh, added)
	prior := keyed(unchanged, changedPrior, removed)

	c := Classify(fresh, prior)

	union := map[string]struct{}{}
	for key := range fresh {
		union[key] = struct{}{}
	}
	for key := range prior {
		union[key] = struct{}{}
	}

	total := len(c.New) + len(c.Updated) + len(c.Unmodified) + len(c.Deleted)
	assert.Equal(t, len(union), total)

	seen := map[string]int{}
	for _, status := range Statuses {
		for _, p := range c.Bucket(status) {
			key, err := p.Key()
			require.NoError(t, err)
			seen[key]++
		}
	}
	for key, count := range seen {
		assert.Equal(t, 1, count, "key %q classified %d times", key, count)
	}
	assert.Len(t, seen, len(union))
}

// Prior has K1 only; fresh has unchanged K1 plus new K2.
func TestClassifyScenarioKnownPlusNew(t *testing.T) {
	t.Parallel()

	k1 := posting("K1", "CFP: K1", time.Time{})
	k2 := posting("K2", "CFP: K2", time.Time{})

	c := Classify(keyed(k1, k2), keyed(k1))

	require.Len(t, c.New, 1)
	assert.Equal(t, "K2", c.New[0].Name)
	require.Len(t, c.Unmodified, 1)
	assert.Equal(t, "K1", c.Unmodified[0].Name)
	assert.Empty(t, c.Updated)
	assert.Empty(t, c.Deleted)

	ordered := c.OrderForWrite()
	require.Len(t, ordered, 2)
	assert.Equal(t, "K2", ordered[0].Name, "new postings persist before unmodified ones")
	assert.Equal(t, "K1", ordered[1].Name)
}
