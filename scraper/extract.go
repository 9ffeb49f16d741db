package scraper

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"strings"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"

	"github.com/pagelens/pagelens/models"
	"github.com/pagelens/pagelens/selector"
)

// screenshotDataURIPrefix is the prefix of the encoded screenshot returned
// to callers. Kept for compatibility with existing consumers of the result
// shape, although the captured image is PNG.
const screenshotDataURIPrefix = "data:image/gif;base64,"

// extract validates the primary selector, locates the element, and captures
// its rendered text and a cropped screenshot encoded as a base64 data URI.
//
// Text is read before the screenshot is captured, so a content-retrieval
// timeout never leaves a screenshot file on disk. The screenshot's
// temporary file is removed on every exit path; a failed delete is
// swallowed since absence of the file is the desired end state.
func (e *Engine) extract(page *rod.Page, sel selector.Selector, addr *url.URL) (*models.ScrapedContent, error) {
	validated, err := selector.Validate(sel)
	if err != nil {
		return nil, models.NewScrapeError(models.StatusError,
			"selector validation failed", sel, err)
	}
	if validated.Path == "" || validated.Status == selector.StatusInvalid {
		return nil, models.NewScrapeError(models.StatusInvalidSelector,
			"selector is not valid CSS", validated, nil)
	}

	shotPath := screenshotFile(addr)
	defer func() { _ = os.Remove(shotPath) }()

	el, err := page.Timeout(e.scraperCfg.PageTimeout).Element(validated.Path)
	if err != nil {
		// A selector matching no node is treated the same as matching
		// an element with no text.
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewScrapeError(models.StatusNoContent,
				fmt.Sprintf("no element matched %q", validated.Path), validated, err)
		}
		return nil, models.NewScrapeError(models.StatusError,
			"failed to locate element", validated, err)
	}

	text, err := el.Timeout(e.scraperCfg.PageTimeout).Text()
	if err != nil {
		return nil, models.NewScrapeError(models.StatusError,
			"failed to read element text", validated, err)
	}
	if text == "" {
		return nil, models.NewScrapeError(models.StatusNoContent,
			fmt.Sprintf("element matched by %q has no text", validated.Path), validated, nil)
	}

	bin, err := el.Timeout(e.scraperCfg.PageTimeout).Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
	if err != nil {
		return nil, models.NewScrapeError(models.StatusError,
			"failed to capture screenshot", validated, err)
	}
	if err := os.WriteFile(shotPath, bin, 0o644); err != nil {
		return nil, models.NewScrapeError(models.StatusError,
			"failed to write screenshot file", validated, err)
	}
	data, err := os.ReadFile(shotPath)
	if err != nil {
		return nil, models.NewScrapeError(models.StatusError,
			"failed to read screenshot file", validated, err)
	}

	return &models.ScrapedContent{
		Content:    text,
		Selector:   validated,
		Screenshot: screenshotDataURIPrefix + base64.StdEncoding.EncodeToString(data),
	}, nil
}

// screenshotFile derives the ephemeral screenshot path for an address:
// "<host>-<lastPathSegment>.png" under the working directory.
func screenshotFile(addr *url.URL) string {
	segment := path.Base(strings.TrimSuffix(addr.Path, "/"))
	if segment == "." || segment == "/" || segment == "" {
		segment = "index"
	}
	return fmt.Sprintf("%s-%s.png", addr.Host, segment)
}
