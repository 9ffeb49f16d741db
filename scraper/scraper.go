// Package scraper implements the content scraping engine: acquiring a page
// from the markup cache or a live browser, performing optional pre-extraction
// clicks, and extracting the target element's text and screenshot. Every
// failure is classified into the models.Status taxonomy so callers can react
// deterministically.
package scraper

import (
	"context"
	"errors"
	"net/url"
	"os"
	"strings"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/pagelens/pagelens/cache"
	"github.com/pagelens/pagelens/config"
	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/selector"
)

// Engine is the scrape orchestrator. Each request launches its own browser
// instance and page; the page cache is the only resource shared across
// concurrent requests.
type Engine struct {
	browserCfg     config.BrowserConfig
	scraperCfg     config.ScraperConfig
	pages          cache.PageCache
	log            logrus.FieldLogger
	activeRequests atomic.Int32
}

// New creates the scraping engine.
func New(browserCfg config.BrowserConfig, scraperCfg config.ScraperConfig, pages cache.PageCache, logger logrus.FieldLogger) *Engine {
	return &Engine{
		browserCfg: browserCfg,
		scraperCfg: scraperCfg,
		pages:      pages,
		log:        logger.WithField("component", "scraper"),
	}
}

// Stats returns a snapshot of the engine's in-flight request count.
func (e *Engine) Stats() models.EngineStats {
	return models.EngineStats{ActiveRequests: int(e.activeRequests.Load())}
}

// GetContent runs one request through the pipeline:
//
//	Validating → Acquiring → Interacting (optional) → Extracting
//
// A single pass, failing fast at the first failing stage. On failure the
// returned error is always a *models.ScrapeError carrying the selector that
// caused it; partial results are never returned.
func (e *Engine) GetContent(ctx context.Context, req *models.ScrapeRequest) (*models.ScrapedContent, error) {
	log := e.log.WithField("url", req.URL)

	// ── Validating ──────────────────────────────────────────────────
	// Request shape and primary selector syntax are checked before any
	// browser or cache resource is spent.
	if strings.TrimSpace(req.Selector.Path) == "" {
		return nil, models.NewScrapeError(models.StatusInvalidSelector,
			"selector path is empty", req.Selector, nil)
	}

	addr, err := url.Parse(req.URL)
	if err != nil || !addr.IsAbs() || addr.Host == "" {
		return nil, models.NewScrapeError(models.StatusError,
			"address is not a well-formed absolute URL", req.Selector, err)
	}

	validated, err := selector.Validate(req.Selector)
	if err != nil {
		// "could not determine validity" is distinct from "invalid".
		return nil, models.NewScrapeError(models.StatusError,
			"selector validation failed", req.Selector, err)
	}
	if validated.Status == selector.StatusInvalid {
		return nil, models.NewScrapeError(models.StatusInvalidSelector,
			"selector is not valid CSS", validated, nil)
	}

	e.activeRequests.Add(1)
	defer e.activeRequests.Add(-1)

	// ── Acquiring ───────────────────────────────────────────────────
	sess, err := e.acquire(ctx, addr, req.UseCache)
	if err != nil {
		return nil, classify(err, validated, "failed to acquire page")
	}
	defer sess.Close()

	// ── Interacting ─────────────────────────────────────────────────
	if len(req.ClickBefore) > 0 {
		if err := e.runClicks(sess.page, req.ClickBefore); err != nil {
			e.removeScreenshot(addr)
			return nil, classify(err, validated, "pre-extraction click failed")
		}
	}

	// ── Extracting ──────────────────────────────────────────────────
	content, err := e.extract(sess.page, validated, addr)
	if err != nil {
		e.removeScreenshot(addr)
		return nil, classify(err, validated, "content extraction failed")
	}

	log.WithField("selector", validated.Path).Info("scrape succeeded")
	return content, nil
}

// removeScreenshot deletes the request's screenshot file if one exists.
// The extractor already cleans up after itself; this is the orchestrator's
// own guarantee on failure exits. Absence of the file is the desired end
// state, so the error is swallowed.
func (e *Engine) removeScreenshot(addr *url.URL) {
	_ = os.Remove(screenshotFile(addr))
}

// classify maps an error to a *models.ScrapeError. Errors already carrying
// a status pass through untouched; context deadlines and everything else
// fall into the generic Error status.
func classify(err error, sel selector.Selector, msg string) *models.ScrapeError {
	var se *models.ScrapeError
	if errors.As(err, &se) {
		return se
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(models.StatusError, msg+": operation timed out", sel, err)
	}
	return models.NewScrapeError(models.StatusError, msg, sel, err)
}
