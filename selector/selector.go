// Package selector defines the data selector type and its syntax validation.
//
// A selector is a CSS path identifying zero or more elements within a
// rendered page. Validation is purely syntactic: it checks the path against
// the CSS selector grammar via cascadia, never against a live DOM.
package selector

import (
	"fmt"

	"github.com/andybalholm/cascadia"
)

// Language identifies the selector dialect. Only CSS is supported.
type Language string

const (
	// LanguageCSS is the only supported selector dialect.
	LanguageCSS Language = "css"
)

// Status is the validity annotation attached to a selector by Validate.
type Status string

const (
	StatusUnknown Status = "unknown"
	StatusValid   Status = "valid"
	StatusInvalid Status = "invalid"
)

// Selector is a syntactic path identifying elements within a page.
// Identity is structural (path + language); Status is annotated by Validate.
type Selector struct {
	// Path is the CSS path. Required.
	Path string `json:"path" binding:"required"`

	// Language is the selector dialect. Empty means CSS.
	Language Language `json:"language,omitempty"`

	// Status records the outcome of the last validation.
	Status Status `json:"status,omitempty"`
}

// UnsupportedLanguageError is returned when a selector declares a dialect
// other than CSS. It names the offending value.
type UnsupportedLanguageError struct {
	Language Language
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported selector language %q: only css is supported", e.Language)
}

// Validate checks the selector's syntax and returns an updated copy with
// Status set to valid or invalid. The caller's value is never mutated.
//
// A non-nil error means validity could not be determined (for example an
// unsupported dialect); it is distinct from a determinate invalid result,
// which is reported through Status with a nil error.
func Validate(sel Selector) (Selector, error) {
	if sel.Language != "" && sel.Language != LanguageCSS {
		return sel, &UnsupportedLanguageError{Language: sel.Language}
	}

	// cascadia parses the selector-group grammar of the CSS standard,
	// the same grammar a style rule head ("<path> {}") must satisfy.
	if _, err := cascadia.ParseGroup(sel.Path); err != nil {
		sel.Status = StatusInvalid
		return sel, nil
	}

	sel.Status = StatusValid
	return sel, nil
}
