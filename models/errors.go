package models

import (
	"fmt"

	"github.com/pagelens/pagelens/selector"
)

// Status classifies the outcome of a scrape request by cause.
type Status string

const (
	// StatusSuccess means content and screenshot were produced.
	StatusSuccess Status = "Success"

	// StatusInvalidSelector means the selector failed syntax validation
	// (or its path was empty).
	StatusInvalidSelector Status = "InvalidSelector"

	// StatusNoContent means the selector is syntactically valid but
	// matched no usable content on the page.
	StatusNoContent Status = "NoContent"

	// StatusElementNotFound means an interaction target timed out:
	// a pre-extraction click never found its element.
	StatusElementNotFound Status = "ElementNotFound"

	// StatusError covers any other technical failure: navigation,
	// filesystem, validator faults, unclassified errors.
	StatusError Status = "Error"
)

// ErrorDetail is the structured failure shape in API responses.
type ErrorDetail struct {
	Status   Status            `json:"status"`
	Message  string            `json:"message"`
	Selector selector.Selector `json:"selector"`
}

// ScrapeError is the internal error type carrying the failure status and
// the selector that caused it. It implements the error interface and
// supports error wrapping via Unwrap.
type ScrapeError struct {
	Status   Status
	Message  string
	Selector selector.Selector
	Err      error // wrapped original error
}

func (e *ScrapeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Status, e.Message)
}

func (e *ScrapeError) Unwrap() error {
	return e.Err
}

// NewScrapeError creates a new ScrapeError.
func NewScrapeError(status Status, message string, sel selector.Selector, err error) *ScrapeError {
	return &ScrapeError{Status: status, Message: message, Selector: sel, Err: err}
}

// ToDetail converts an internal error to an API-facing ErrorDetail.
func (e *ScrapeError) ToDetail() *ErrorDetail {
	return &ErrorDetail{Status: e.Status, Message: e.Message, Selector: e.Selector}
}
