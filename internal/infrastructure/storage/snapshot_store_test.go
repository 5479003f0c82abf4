package storage

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cfptracker/internal/config"
	"cfptracker/internal/domain"
)

func testStore(t *testing.T) *SnapshotStore {
	t.Helper()
	cfg := config.StoreConfig{
		Path:       filepath.Join(t.TempDir(), "cfp.db"),
		Delimiter:  ";",
		DateLayout: "2006-01-02",
		Header:     []string{"Type", "Name", "Title", "Summary", "Deadline", "TitleLink", "ActionsLink"},
	}
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewSnapshotStore(cfg, quiet)
}

func TestLoadMissingFileMeansEmptySnapshot(t *testing.T) {
	t.Parallel()

	store := testStore(t)

	snapshot, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snapshot)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	withDeadline := domain.Posting{
		Type:        domain.MediaMagazine,
		Name:        "IEEE Software",
		Title:       "Call for Papers: IEEE Software",
		Summary:     "Special issue on fuzzing.",
		Deadline:    time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
		TitleLink:   "/cfp/sw",
		ActionsLink: "/cfp/sw",
	}
	withoutDeadline := domain.Posting{
		Type:        domain.MediaConference,
		Name:        "ICSE",
		Title:       "Call for Papers: ICSE",
		Summary:     "Research track.",
		TitleLink:   "/cfp/icse",
		ActionsLink: "/cfp/icse",
	}

	require.NoError(t, store.Save([]domain.Posting{withDeadline, withoutDeadline}))

	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	key1, err := withDeadline.Key()
	require.NoError(t, err)
	loaded := snapshot[key1]
	assert.True(t, loaded.Deadline.Equal(withDeadline.Deadline), "deadline must round-trip by calendar date")
	assert.True(t, loaded.Equal(withDeadline))

	key2, err := withoutDeadline.Key()
	require.NoError(t, err)
	assert.False(t, snapshot[key2].HasDeadline(), "absent deadline must stay absent")
	assert.True(t, snapshot[key2].Equal(withoutDeadline))
}

func TestSaveMatchesGolden(t *testing.T) {
	store := testStore(t)
	postings := []domain.Posting{
		{
			Type:        domain.MediaMagazine,
			Name:        "IEEE Software",
			Title:       "Call for Papers: IEEE Software",
			Summary:     "Special issue on fuzzing.",
			Deadline:    time.Date(2025, time.March, 14, 0, 0, 0, 0, time.UTC),
			TitleLink:   "/cfp/sw",
			ActionsLink: "/cfp/sw",
		},
		{
			Type:        domain.MediaConference,
			Name:        "ICSE",
			Title:       "Call for Papers: ICSE",
			Summary:     "Research track.",
			TitleLink:   "/cfp/icse",
			ActionsLink: "/cfp/icse",
		},
	}

	require.NoError(t, store.Save(postings))

	raw, err := os.ReadFile(store.Path())
	require.NoError(t, err)

	g := goldie.New(t)
	g.Assert(t, "snapshot", raw)
}

func TestSaveLeavesNoTempFiles(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	require.NoError(t, store.Save([]domain.Posting{{
		Type:  domain.MediaJournal,
		Name:  "IEEE Micro",
		Title: "Call for Papers: IEEE Micro",
	}}))

	entries, err := os.ReadDir(filepath.Dir(store.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, filepath.Base(store.Path()), entries[0].Name())
}

func TestSaveReplacesPriorContentWholesale(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	first := domain.Posting{Type: domain.MediaJournal, Name: "A", Title: "CFP: A"}
	second := domain.Posting{Type: domain.MediaJournal, Name: "B", Title: "CFP: B"}

	require.NoError(t, store.Save([]domain.Posting{first}))
	require.NoError(t, store.Save([]domain.Posting{second}))

	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	key, err := second.Key()
	require.NoError(t, err)
	assert.Contains(t, snapshot, key)
}

func TestLoadRenormalizesType(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	content := "Type;Name;Title;Summary;Deadline;TitleLink;ActionsLink\n" +
		"journal;IEEE Micro;CFP: IEEE Micro;;;;\n" +
		"Bulletin;Weird;CFP: Weird;;;;\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snapshot, 2)

	micro := snapshot["JournalIEEE MicroCFP: IEEE Micro"]
	assert.Equal(t, domain.MediaJournal, micro.Type)

	weird := snapshot["UnknownWeirdCFP: Weird"]
	assert.Equal(t, domain.MediaUnknown, weird.Type, "unrecognized types fold to Unknown")
}

func TestLoadUnparseableDeadlineTreatedAsAbsent(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	content := "Type;Name;Title;Summary;Deadline;TitleLink;ActionsLink\n" +
		"Magazine;IEEE Software;CFP: IEEE Software;;14/03/2025;;\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snapshot, 1)

	for _, posting := range snapshot {
		assert.False(t, posting.HasDeadline())
	}
}

func TestLoadDropsRowWithoutIdentity(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	content := "Type;Name;Title;Summary;Deadline;TitleLink;ActionsLink\n" +
		"Magazine;;CFP: Nameless;;;;\n" +
		"Magazine;IEEE Software;CFP: IEEE Software;;;;\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	snapshot, err := store.Load()
	require.NoError(t, err)
	require.Len(t, snapshot, 1)
	assert.Contains(t, snapshot, "MagazineIEEE SoftwareCFP: IEEE Software")
}

func TestLoadWrongColumnCountIsAnError(t *testing.T) {
	t.Parallel()

	store := testStore(t)
	content := "Type;Name;Title;Summary;Deadline;TitleLink;ActionsLink\n" +
		"Magazine;IEEE Software;CFP: IEEE Software\n"
	require.NoError(t, os.WriteFile(store.Path(), []byte(content), 0o644))

	_, err := store.Load()
	assert.Error(t, err)
}
