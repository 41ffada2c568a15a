// Package span holds the document model shared by the extraction,
// classification, and assembly stages.
package span

import (
	"math"
	"sort"
	"strings"
	"unicode"
)

// TextSpan is one contiguous run of text sharing a font size and weight on a
// single page. X and Y are PDF user-space coordinates with the origin at the
// bottom-left corner, so reading order on a page runs from high Y to low Y.
type TextSpan struct {
	Text     string
	FontSize float64 // points, quantized to 0.1pt
	Page     int     // 0-indexed
	Bold     bool
	X        float64
	Y        float64
}

// Level is a heading tier. The zero value is body text.
type Level int

const (
	LevelBody Level = iota
	LevelH1
	LevelH2
	LevelH3
	LevelTitle
)

func (l Level) String() string {
	switch l {
	case LevelH1:
		return "H1"
	case LevelH2:
		return "H2"
	case LevelH3:
		return "H3"
	case LevelTitle:
		return "title"
	default:
		return "body"
	}
}

// IsHeading reports whether the level is one of the H1-H3 tiers.
func (l Level) IsHeading() bool {
	return l == LevelH1 || l == LevelH2 || l == LevelH3
}

// Labeled pairs a span with its classified level.
type Labeled struct {
	Span  TextSpan
	Level Level
}

// Quantize rounds a font size to 0.1pt so that rendering jitter
// (11.99996 vs 12.0) cannot split a histogram bucket.
func Quantize(size float64) float64 {
	return math.Round(size*10) / 10
}

// SizeKey converts a font size to its integer decipoint bucket, the key used
// for histogram counts and size equality.
func SizeKey(size float64) int {
	return int(math.Round(size * 10))
}

// SortReadingOrder orders spans by page ascending, then top-to-bottom on the
// page (descending Y), then left-to-right.
func SortReadingOrder(spans []TextSpan) {
	sort.SliceStable(spans, func(i, j int) bool {
		if spans[i].Page != spans[j].Page {
			return spans[i].Page < spans[j].Page
		}
		if spans[i].Y != spans[j].Y {
			return spans[i].Y > spans[j].Y
		}
		return spans[i].X < spans[j].X
	})
}

// SortLabeledReadingOrder orders labeled spans the same way as
// SortReadingOrder.
func SortLabeledReadingOrder(labeled []Labeled) {
	sort.SliceStable(labeled, func(i, j int) bool {
		a, b := labeled[i].Span, labeled[j].Span
		if a.Page != b.Page {
			return a.Page < b.Page
		}
		if a.Y != b.Y {
			return a.Y > b.Y
		}
		return a.X < b.X
	})
}

// Normalize strips control characters (C0, DEL, C1), collapses internal
// whitespace runs to single spaces, and trims. Control characters that are
// themselves whitespace, tab and newline included, fold into the surrounding
// run instead of vanishing. Applied before comparison and before emission;
// span text is stored raw.
func Normalize(s string) string {
	s = strings.Map(func(r rune) rune {
		if (r < 0x20 || (r >= 0x7f && r <= 0x9f)) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
	return strings.Join(strings.Fields(s), " ")
}
