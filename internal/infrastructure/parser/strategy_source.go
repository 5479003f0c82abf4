package parser

import (
	"context"
	"fmt"
	"log/slog"

	"cfptracker/internal/config"
	"cfptracker/internal/domain"
	"cfptracker/internal/ports"
	"cfptracker/internal/scanner"
)

// StrategySource implements PostingSource via registered scanner strategies.
type StrategySource struct {
	registry *scanner.Registry
	sites    []config.SiteConfig
	logger   *slog.Logger
}

var _ ports.PostingSource = (*StrategySource)(nil)

// NewStrategySource wires the scanner registry with config-defined sites.
func NewStrategySource(reg *scanner.Registry, sites []config.SiteConfig, log *slog.Logger) *StrategySource {
	return &StrategySource{
		registry: reg,
		sites:    sites,
		logger:   log,
	}
}

// FetchPostings iterates over configured sites and executes their scanners.
func (s *StrategySource) FetchPostings(ctx context.Context) ([]domain.Posting, error) {
	if s.registry == nil {
		return nil, fmt.Errorf("scanner registry is not configured")
	}

	s.debug("fetch postings", "sites", len(s.sites))

	var aggregated []domain.Posting
	for _, site := range s.sites {
		s.debug("process site", "site", site.Name, "scanner", site.Scanner)
		strategy, err := s.registry.Resolve(site.Scanner)
		if err != nil {
			return nil, fmt.Errorf("site %s: %w", site.Name, err)
		}

		req := scanner.Request{
			SiteName: site.Name,
			URL:      site.URL,
			Headers:  site.Headers,
			Options:  site.Options,
		}

		results, err := strategy.Scan(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("scan site %s: %w", site.Name, err)
		}

		s.debug("site produced postings", "site", site.Name, "count", len(results))
		aggregated = append(aggregated, results...)
	}

	s.debug("strategy source done", "total_postings", len(aggregated))
	return aggregated, nil
}

func (s *StrategySource) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
