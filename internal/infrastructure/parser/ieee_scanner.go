package parser

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"cfptracker/internal/domain"
	"cfptracker/internal/scanner"
)

// CSS classes and data attributes the IEEE CS call-for-papers page exposes.
const (
	containerClass = "callForPaperPostContainer"
	titleClass     = "callForPaperPostTitle"
	summaryClass   = "callForPaperPostSummary"
	actionsClass   = "callForPaperPostActions"

	typeAttr     = "data-callforpaper-type"
	nameAttr     = "data-publication"
	deadlineAttr = "data-deadline"
)

// IEEECSScanner extracts call-for-papers postings from the IEEE Computer
// Society page markup.
type IEEECSScanner struct {
	client     *http.Client
	dateLayout string
	logger     *slog.Logger
}

// NewIEEECSScanner wires an HTTP client and the deadline date layout.
func NewIEEECSScanner(client *http.Client, dateLayout string, logger *slog.Logger) *IEEECSScanner {
	if client == nil {
		client = &http.Client{Timeout: 20 * time.Second}
	}
	if dateLayout == "" {
		dateLayout = "2006-01-02"
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &IEEECSScanner{client: client, dateLayout: dateLayout, logger: logger}
}

// Name identifies the strategy inside the registry.
func (s *IEEECSScanner) Name() string {
	return "ieee-cs"
}

// Scan fetches the configured page and extracts one posting per container.
func (s *IEEECSScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Posting, error) {
	if req.URL == "" {
		return nil, fmt.Errorf("no URL provided for site %s", req.SiteName)
	}

	doc, err := s.fetchDocument(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("site %s: %w", req.SiteName, err)
	}

	return s.extractPostings(doc), nil
}

func (s *IEEECSScanner) fetchDocument(ctx context.Context, req scanner.Request) (*goquery.Document, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, req.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, value := range req.Headers {
		httpReq.Header.Set(name, value)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("request document: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("source returned %s", resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}

	return doc, nil
}

func (s *IEEECSScanner) extractPostings(doc *goquery.Document) []domain.Posting {
	var postings []domain.Posting
	doc.Find("div." + containerClass).Each(func(_ int, container *goquery.Selection) {
		postings = append(postings, s.parseContainer(container))
	})
	return postings
}

func (s *IEEECSScanner) parseContainer(container *goquery.Selection) domain.Posting {
	posting := domain.Posting{
		Type: domain.MediaTypeFrom(attrOrEmpty(container, typeAttr)),
		Name: strings.TrimSpace(attrOrEmpty(container, nameAttr)),
	}

	if raw := attrOrEmpty(container, deadlineAttr); raw != "" {
		when, err := time.Parse(s.dateLayout, raw)
		if err != nil {
			s.logger.Warn("unparseable deadline attribute treated as absent", "value", raw, "error", err)
		} else {
			posting.Deadline = when
		}
	}

	titleLink := container.Find("div." + titleClass + " a").First()
	posting.TitleLink = attrOrEmpty(titleLink, "href")
	posting.Title = strings.TrimSpace(titleLink.Text())

	summary := container.Find("div." + summaryClass + " p").First().Text()
	posting.Summary = domain.SanitizeSummary(strings.TrimSpace(summary))

	actionsLink := container.Find("div." + actionsClass + " a").First()
	posting.ActionsLink = attrOrEmpty(actionsLink, "href")

	// Pages occasionally omit the publication attribute; the title
	// usually carries the name after a colon.
	if posting.Name == "" {
		posting.Name = domain.NameFromTitle(posting.Title)
	}

	if posting.TitleLink != posting.ActionsLink {
		s.logger.Warn("title link does not match actions link",
			"title_link", posting.TitleLink,
			"actions_link", posting.ActionsLink,
			"name", posting.Name,
			"type", posting.Type)
	}

	return posting
}

func attrOrEmpty(sel *goquery.Selection, name string) string {
	value, _ := sel.Attr(name)
	return value
}
