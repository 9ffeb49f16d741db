package models

import "github.com/pagelens/pagelens/selector"

// ScrapeRequest is the unit of work submitted to the engine
// (and the payload for POST /api/v1/scrape).
type ScrapeRequest struct {
	// Selector is the primary extraction selector. Its path must be
	// non-empty; its language must be CSS or unset.
	Selector selector.Selector `json:"selector" binding:"required"`

	// URL is the absolute address of the target page. Required.
	URL string `json:"url" binding:"required,url"`

	// ClickBefore is an ordered list of optional click targets performed
	// before extraction, typically to dismiss overlays. Entries with an
	// empty path are skipped.
	ClickBefore []selector.Selector `json:"click_before,omitempty"`

	// UseCache serves the page from the markup cache when possible,
	// avoiding a live navigation. A miss still populates the cache.
	UseCache bool `json:"use_cache,omitempty"`
}

// ValidateRequest is the payload for POST /api/v1/selector/validate.
type ValidateRequest struct {
	Selector selector.Selector `json:"selector" binding:"required"`
}
