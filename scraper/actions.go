package scraper

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/selector"
)

// runClicks performs the pre-extraction click targets against the page.
// Entries with an empty path are skipped. All attempts run concurrently
// against the same page handle; after the join, the first failure by list
// order is surfaced. If any click fails the whole sequence is reported as
// failed and extraction is never attempted.
func (e *Engine) runClicks(page *rod.Page, targets []selector.Selector) error {
	results := make([]error, len(targets))

	var wg sync.WaitGroup
	for i, target := range targets {
		if target.Path == "" {
			continue
		}
		wg.Add(1)
		go func(i int, target selector.Selector) {
			defer wg.Done()
			results[i] = e.clickOne(page, target)
		}(i, target)
	}
	wg.Wait()

	return firstFailure(results)
}

// firstFailure returns the first non-nil error by list order.
func firstFailure(results []error) error {
	for _, err := range results {
		if err != nil {
			return err
		}
	}
	return nil
}

// clickOne validates one click target and clicks it, then pauses for the
// settle delay so the page can react before it is used again.
func (e *Engine) clickOne(page *rod.Page, target selector.Selector) error {
	validated, err := selector.Validate(target)
	if err != nil {
		return models.NewScrapeError(models.StatusError,
			"click target validation failed", target, err)
	}
	if validated.Status == selector.StatusInvalid {
		return models.NewScrapeError(models.StatusInvalidSelector,
			fmt.Sprintf("click target %q is not valid CSS", validated.Path), validated, nil)
	}

	el, err := page.Timeout(e.scraperCfg.PageTimeout).Element(validated.Path)
	if err != nil {
		return classifyClick(err, validated)
	}
	if err := el.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return classifyClick(err, validated)
	}

	e.log.WithField("selector", validated.Path).Debug("click target dismissed")
	time.Sleep(e.scraperCfg.SettleDelay)
	return nil
}

// classifyClick maps a click failure to the status taxonomy: a timeout
// waiting for the target means the element never appeared; anything else is
// a generic error.
func classifyClick(err error, target selector.Selector) *models.ScrapeError {
	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewScrapeError(models.StatusElementNotFound,
			fmt.Sprintf("timed out waiting for click target %q", target.Path), target, err)
	}
	return models.NewScrapeError(models.StatusError,
		fmt.Sprintf("failed to click %q", target.Path), target, err)
}
