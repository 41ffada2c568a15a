// Package parser extracts positioned text spans from PDF files.
package parser

import (
	"fmt"

	"github.com/dgallion1/pdfoutline/internal/span"
)

// Document is the extraction result for one PDF file. Spans preserve
// the extractor's emission order; PageCount covers all pages, including
// ones that yielded no text.
type Document struct {
	PageCount int
	Spans     []span.TextSpan
}

// Extractor turns a PDF file on disk into a Document.
type Extractor interface {
	Extract(path string) (*Document, error)
}

// UnreadableError marks a file that failed preflight or could not be
// opened at all, as opposed to one with individual undecodable pages.
type UnreadableError struct {
	Path string
	Err  error
}

func (e *UnreadableError) Error() string {
	return fmt.Sprintf("unreadable pdf %s: %v", e.Path, e.Err)
}

func (e *UnreadableError) Unwrap() error { return e.Err }
