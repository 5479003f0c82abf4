// Package storage persists the latest posting snapshot as a delimited
// flat-text file: one header row, then one row per posting.
package storage

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"cfptracker/internal/config"
	"cfptracker/internal/domain"
	"cfptracker/internal/ports"
)

// Column positions inside a snapshot row. The header row itself is written
// from config and discarded on load, never validated.
const (
	colType = iota
	colName
	colTitle
	colSummary
	colDeadline
	colTitleLink
	colActionsLink
)

// SnapshotStore is the codec between persisted rows and domain postings.
type SnapshotStore struct {
	path       string
	delimiter  rune
	dateLayout string
	header     []string
	logger     *slog.Logger
}

var _ ports.SnapshotRepository = (*SnapshotStore)(nil)

// NewSnapshotStore builds the codec from explicit store configuration.
func NewSnapshotStore(cfg config.StoreConfig, logger *slog.Logger) *SnapshotStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &SnapshotStore{
		path:       cfg.Path,
		delimiter:  cfg.DelimiterRune(),
		dateLayout: cfg.DateLayout,
		header:     cfg.Header,
		logger:     logger,
	}
}

// Path returns the snapshot file location.
func (s *SnapshotStore) Path() string {
	return s.path
}

// Load reads the prior snapshot keyed by identity. A missing file is not an
// error: it means no prior snapshot exists and the run starts from empty.
// Any other read or parse failure is returned to the caller, which decides
// whether to degrade to a full resync.
func (s *SnapshotStore) Load() (map[string]domain.Posting, error) {
	file, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.Info("no prior snapshot, starting from empty", "path", s.path)
		return map[string]domain.Posting{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open snapshot %s: %w", s.path, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.Comma = s.delimiter
	reader.FieldsPerRecord = len(s.header)

	// Header row is discarded.
	if _, err := reader.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]domain.Posting{}, nil
		}
		return nil, fmt.Errorf("read snapshot header: %w", err)
	}

	postings := map[string]domain.Posting{}
	for line := 2; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read snapshot row %d: %w", line, err)
		}

		posting := s.decodeRow(row, line)
		key, err := posting.Key()
		if err != nil {
			s.logger.Warn("dropping snapshot row without identity", "line", line, "error", err)
			continue
		}
		postings[key] = posting
	}

	return postings, nil
}

// Save atomically replaces the snapshot with the given postings in the given
// order. The destination either keeps its previous content or receives the
// full replacement; a partial file is never observable to a later run.
func (s *SnapshotStore) Save(postings []domain.Posting) error {
	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}
	tmpName := tmp.Name()

	if err := s.write(tmp, postings); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp snapshot: %w", err)
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace snapshot %s: %w", s.path, err)
	}

	return nil
}

func (s *SnapshotStore) write(w io.Writer, postings []domain.Posting) error {
	writer := csv.NewWriter(w)
	writer.Comma = s.delimiter

	if err := writer.Write(s.header); err != nil {
		return fmt.Errorf("write snapshot header: %w", err)
	}

	for _, posting := range postings {
		if err := writer.Write(s.encodeRow(posting)); err != nil {
			return fmt.Errorf("write snapshot row: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush snapshot: %w", err)
	}
	return nil
}

func (s *SnapshotStore) decodeRow(row []string, line int) domain.Posting {
	posting := domain.Posting{
		Type:        domain.MediaTypeFrom(row[colType]),
		Name:        strings.TrimSpace(row[colName]),
		Title:       strings.TrimSpace(row[colTitle]),
		Summary:     row[colSummary],
		TitleLink:   row[colTitleLink],
		ActionsLink: row[colActionsLink],
	}

	if raw := strings.TrimSpace(row[colDeadline]); raw != "" {
		when, err := time.Parse(s.dateLayout, raw)
		if err != nil {
			s.logger.Warn("unparseable deadline treated as absent", "line", line, "value", raw, "error", err)
		} else {
			posting.Deadline = when
		}
	}

	return posting
}

func (s *SnapshotStore) encodeRow(posting domain.Posting) []string {
	deadline := ""
	if posting.HasDeadline() {
		deadline = posting.Deadline.Format(s.dateLayout)
	}
	return []string{
		string(posting.Type),
		posting.Name,
		posting.Title,
		posting.Summary,
		deadline,
		posting.TitleLink,
		posting.ActionsLink,
	}
}
