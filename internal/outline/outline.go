// Package outline assembles labeled spans into the per-document outline and
// serializes it.
package outline

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/dgallion1/pdfoutline/internal/span"
)

// Entry is one detected heading. Field order is part of the output contract.
type Entry struct {
	Level string `json:"level"`
	Text  string `json:"text"`
	Page  int    `json:"page"` // 1-indexed
}

// Outline is the unit of output per document. Entries is empty, never nil,
// when no headings are detected; Title is omitted entirely when absent.
type Outline struct {
	Title   string  `json:"title,omitempty"`
	Entries []Entry `json:"outline"`
}

// Options bound the assembled outline. Zero values disable the caps.
type Options struct {
	TitleMaxRunes int
	MaxEntries    int
}

// Assemble orders labeled spans into reading order, picks the title, and
// emits normalized, deduplicated heading entries.
func Assemble(labeled []span.Labeled, opt Options) Outline {
	ordered := make([]span.Labeled, len(labeled))
	copy(ordered, labeled)
	span.SortLabeledReadingOrder(ordered)

	o := Outline{Entries: make([]Entry, 0, len(ordered))}

	// Running headers repeat the same text at the same level across
	// consecutive pages; each entry is compared against the previous
	// heading span, kept or not, so a whole run collapses to its first
	// occurrence while a reappearance after a gap survives.
	var prev Entry
	havePrev := false

	for _, l := range ordered {
		switch {
		case l.Level == span.LevelTitle:
			if o.Title == "" {
				o.Title = truncateRunes(span.Normalize(l.Span.Text), opt.TitleMaxRunes)
			}
		case l.Level.IsHeading():
			text := span.Normalize(l.Span.Text)
			if text == "" {
				continue
			}
			e := Entry{Level: l.Level.String(), Text: text, Page: l.Span.Page + 1}
			dup := havePrev && e.Level == prev.Level && e.Text == prev.Text && e.Page-prev.Page <= 1
			prev, havePrev = e, true
			if dup {
				continue
			}
			o.Entries = append(o.Entries, e)
		}
	}

	if opt.MaxEntries > 0 && len(o.Entries) > opt.MaxEntries {
		o.Entries = o.Entries[:opt.MaxEntries]
	}
	return o
}

func truncateRunes(s string, max int) string {
	if max <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max])
}

// Encode serializes the outline deterministically: two-space indent, HTML
// escaping off, trailing newline. Identical outlines encode to identical
// bytes.
func (o Outline) Encode() ([]byte, error) {
	if o.Entries == nil {
		o.Entries = []Entry{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(o); err != nil {
		return nil, fmt.Errorf("encode outline: %w", err)
	}
	return buf.Bytes(), nil
}

// MarkdownTOC renders the outline as a nested markdown list, one list item
// per heading, indented two spaces per level below H1.
func (o Outline) MarkdownTOC() string {
	var b strings.Builder
	if o.Title != "" {
		b.WriteString("# ")
		b.WriteString(o.Title)
		b.WriteString("\n\n")
	}
	for _, e := range o.Entries {
		depth := 0
		switch e.Level {
		case "H2":
			depth = 1
		case "H3":
			depth = 2
		}
		fmt.Fprintf(&b, "%s- %s (p. %d)\n", strings.Repeat("  ", depth), e.Text, e.Page)
	}
	return b.String()
}
