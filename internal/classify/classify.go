// Package classify maps text spans to heading levels. The mapping rules are
// policy: strategies implement Classifier and are selected by name, so an
// alternative heuristic can be swapped in without touching extraction or
// assembly.
package classify

import (
	"fmt"

	"github.com/dgallion1/pdfoutline/internal/fontstats"
	"github.com/dgallion1/pdfoutline/internal/span"
)

// Classifier labels a document's spans given its font profile. The input
// slice is not modified; labels come back in reading order.
type Classifier interface {
	Classify(spans []span.TextSpan, profile fontstats.Profile) []span.Labeled
}

// FoldMode controls spans whose size lies strictly between the body size and
// the smallest assigned heading size.
type FoldMode string

const (
	// FoldH3 merges the whole band into the lowest retained tier. This is
	// the default: it tolerates minor size jitter from font rendering.
	FoldH3 FoldMode = "h3"
	// FoldBoldOnly keeps bold band spans as H3 and demotes the rest to
	// body: when one of two same-size spans must be demoted, non-bold
	// loses.
	FoldBoldOnly FoldMode = "bold-only"
	// FoldOff demotes the whole band to body.
	FoldOff FoldMode = "off"
)

// ForName returns the classifier registered under name.
func ForName(name string, fold FoldMode) (Classifier, error) {
	switch name {
	case "", "sizerank":
		return SizeRank{Fold: fold}, nil
	case "pattern":
		return Pattern{Fold: fold}, nil
	default:
		return nil, fmt.Errorf("unknown classifier: %q", name)
	}
}

// SizeRank is the default strategy: spans rank into levels purely by where
// their font size sits in the document's profile. Bold weight never promotes
// a span; it only decides demotions under FoldBoldOnly.
type SizeRank struct {
	Fold FoldMode
}

// Classify labels spans in reading order. The first heading-level span on
// page one carries the document title when it has the single largest heading
// size; later spans of that size rank as H1 like any other.
func (c SizeRank) Classify(spans []span.TextSpan, profile fontstats.Profile) []span.Labeled {
	ordered := make([]span.TextSpan, len(spans))
	copy(ordered, spans)
	span.SortReadingOrder(ordered)

	largest, hasHeadings := profile.Largest()
	firstPageHeadingSeen := false

	out := make([]span.Labeled, 0, len(ordered))
	for _, s := range ordered {
		level := c.levelFor(s, profile)
		if level.IsHeading() && s.Page == 0 && hasHeadings {
			if !firstPageHeadingSeen && span.SizeKey(s.FontSize) == span.SizeKey(largest) {
				level = span.LevelTitle
			}
			firstPageHeadingSeen = true
		}
		out = append(out, span.Labeled{Span: s, Level: level})
	}
	return out
}

func (c SizeRank) levelFor(s span.TextSpan, profile fontstats.Profile) span.Level {
	if span.Normalize(s.Text) == "" {
		return span.LevelBody
	}
	if level, ok := profile.Level(s.FontSize); ok {
		return level
	}
	if s.FontSize <= profile.BodySize {
		return span.LevelBody
	}
	smallest, ok := profile.Smallest()
	if !ok || s.FontSize >= smallest {
		return span.LevelBody
	}
	// Jitter band: above body, below the lowest assigned heading size.
	switch c.Fold {
	case FoldOff:
		return span.LevelBody
	case FoldBoldOnly:
		if s.Bold {
			return span.LevelH3
		}
		return span.LevelBody
	default:
		return span.LevelH3
	}
}
