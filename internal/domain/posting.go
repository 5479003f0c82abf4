package domain

import (
	"strings"
	"time"
)

// MediaType classifies the publication behind a posting.
type MediaType string

const (
	MediaMagazine   MediaType = "Magazine"
	MediaJournal    MediaType = "Journal"
	MediaConference MediaType = "Conference"
	MediaUnknown    MediaType = "Unknown"
)

// MediaTypeFrom folds raw text into a MediaType. Empty or unrecognized
// input maps to Unknown, never to an error.
func MediaTypeFrom(value string) MediaType {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "magazine":
		return MediaMagazine
	case "journal":
		return MediaJournal
	case "conference":
		return MediaConference
	default:
		return MediaUnknown
	}
}

// Status is the life-cycle state a posting lands in after one run.
type Status string

const (
	StatusNew        Status = "NEW"
	StatusUpdated    Status = "UPDATED"
	StatusUnmodified Status = "UNMODIFIED"
	StatusDeleted    Status = "DELETED"
)

// Posting is one call-for-papers entry observed on the source page.
// A zero Deadline means no deadline was announced.
type Posting struct {
	Type        MediaType
	Name        string
	Title       string
	Summary     string
	Deadline    time.Time
	TitleLink   string
	ActionsLink string
}

// HasDeadline reports whether a deadline was announced for this posting.
func (p Posting) HasDeadline() bool {
	return !p.Deadline.IsZero()
}

// Equal reports content equality across every attribute.
func (p Posting) Equal(other Posting) bool {
	return p.Type == other.Type &&
		p.Name == other.Name &&
		p.Title == other.Title &&
		p.Summary == other.Summary &&
		p.Deadline.Equal(other.Deadline) &&
		p.TitleLink == other.TitleLink &&
		p.ActionsLink == other.ActionsLink
}

// Key derives the identity key for this posting.
func (p Posting) Key() (string, error) {
	return BuildKey(p.Type, p.Name, p.Title)
}
