package models

import "github.com/pagelens/pagelens/selector"

// ScrapedContent is the engine's success payload: the extracted text, the
// validated selector that produced it, and a cropped element screenshot
// encoded as a base64 data URI.
type ScrapedContent struct {
	Content    string            `json:"content"`
	Selector   selector.Selector `json:"selector"`
	Screenshot string            `json:"screenshot"`
}

// ScrapeResponse is the response for POST /api/v1/scrape.
// Exactly one of the two shapes is populated: the success fields or Error.
type ScrapeResponse struct {
	// Success indicates whether the scrape completed without errors.
	Success bool `json:"success"`

	// Content is the extracted element text. Set only on success.
	Content string `json:"content,omitempty"`

	// Selector is the validated selector. Set only on success; failures
	// carry their selector inside Error.
	Selector *selector.Selector `json:"selector,omitempty"`

	// Screenshot is the element screenshot as a base64 data URI.
	Screenshot string `json:"screenshot,omitempty"`

	// Error is populated only when Success is false.
	Error *ErrorDetail `json:"error,omitempty"`
}

// ValidateResponse is the response for POST /api/v1/selector/validate.
type ValidateResponse struct {
	Success  bool              `json:"success"`
	Selector selector.Selector `json:"selector"`
	Error    *ErrorDetail      `json:"error,omitempty"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status  string      `json:"status"` // "healthy" or "degraded"
	Uptime  string      `json:"uptime"`
	Engine  EngineStats `json:"engine"`
	Version string      `json:"version"`
}

// EngineStats reports the engine's in-flight request count.
type EngineStats struct {
	ActiveRequests int `json:"active_requests"`
}
