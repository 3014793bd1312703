package scrape

import (
	"bytes"
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"

	"github.com/smartmarks/smartmarks-api/internal/models"
	"github.com/smartmarks/smartmarks-api/internal/platform"
)

// DefaultFetchTimeout bounds each fetch attempt.
const DefaultFetchTimeout = 12 * time.Second

// Fetcher retrieves a page under one or more scraping identities and
// extracts bookmark metadata from the best response.
type Fetcher struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher. A zero timeout falls back to
// DefaultFetchTimeout.
func NewFetcher(timeout time.Duration, logger *slog.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Fetcher{timeout: timeout, logger: logger}
}

// attemptState tracks the identity rotation. Each attempt either
// satisfies the stop condition, improves the best partial result, or is
// discarded; when the rotation runs out the best partial wins.
type attemptState struct {
	best    models.Metadata
	hasBest bool
}

// satisfied reports whether a result is good enough to stop rotating:
// a real title (not just the platform's own name echoed back) and a
// thumbnail.
func satisfied(m models.Metadata, info platform.Info) bool {
	return m.Title != "" && m.Title != info.Name && m.Thumbnail != ""
}

// consider keeps the better of the current best and a new partial
// result. A result with a title beats one without; among titled results
// the longer description wins.
func (s *attemptState) consider(m models.Metadata) {
	if !s.hasBest {
		s.best = m
		s.hasBest = true
		return
	}
	if m.Title != "" && s.best.Title == "" {
		s.best = m
		return
	}
	if m.Title != "" && len(m.Description) > len(s.best.Description) {
		s.best = m
	}
}

// Fetch retrieves pageURL and extracts metadata. Social platforms get the
// full user-agent rotation with an early exit once a satisfying result
// appears; other hosts get a single browser attempt. Fetch never returns
// an error: unreachable pages degrade to a manual-edit record built from
// the platform info.
func (f *Fetcher) Fetch(ctx context.Context, pageURL *url.URL, info platform.Info) models.Metadata {
	host := platform.CanonicalHost(pageURL)
	agents := AgentsFor(host)

	state := attemptState{}
	for _, agent := range agents {
		if ctx.Err() != nil {
			break
		}

		meta, err := f.attempt(pageURL, info, agent)
		if err != nil {
			f.logger.Debug("fetch attempt failed",
				"url", pageURL.String(),
				"agent", agent.Label,
				"error", err,
			)
			continue
		}

		if satisfied(meta, info) {
			f.logger.Debug("fetch satisfied",
				"url", pageURL.String(),
				"agent", agent.Label,
			)
			return meta
		}
		state.consider(meta)
	}

	if state.hasBest && state.best.Title != "" {
		return state.best
	}

	// Every identity struck out: hand back a platform-shaped record the
	// user will want to edit.
	fallback := models.Metadata{
		Platform:        info.Name,
		Title:           info.Name,
		NeedsManualEdit: true,
	}
	if state.hasBest {
		fallback.Description = state.best.Description
		fallback.Thumbnail = state.best.Thumbnail
	}
	return fallback
}

// attempt performs one GET under the given identity and extracts
// metadata from the response body.
func (f *Fetcher) attempt(pageURL *url.URL, info platform.Info, agent Agent) (models.Metadata, error) {
	var body []byte

	c := colly.NewCollector(
		colly.UserAgent(agent.UserAgent),
		colly.AllowURLRevisit(),
	)
	c.SetRequestTimeout(f.timeout)

	c.OnRequest(func(r *colly.Request) {
		r.Headers.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
		r.Headers.Set("Accept-Language", "en-US,en;q=0.9,zh-CN;q=0.8,zh;q=0.7")
		r.Headers.Set("Cache-Control", "no-cache")
	})

	c.OnResponse(func(r *colly.Response) {
		body = r.Body
	})

	if err := c.Visit(pageURL.String()); err != nil {
		return models.Metadata{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.Metadata{}, err
	}

	return Extract(doc, pageURL, info), nil
}
