// Package fontstats derives a per-document font profile from the span
// multiset: the dominant body size plus the ranked heading sizes above it.
package fontstats

import (
	"sort"

	"github.com/dgallion1/pdfoutline/internal/span"
)

// Documents deeper than three tiers fold their extra sizes into H3.
const maxHeadingLevels = 3

// Profile maps font sizes to heading levels for one document. It is built
// fresh per document and passed through the pipeline as a value; nothing may
// cache one across documents.
type Profile struct {
	// BodySize is the modal span size, presumed paragraph text.
	BodySize float64
	// HeadingSizes holds the assigned heading sizes in descending order:
	// index 0 is H1, 1 is H2, 2 is H3. Empty when the document is
	// homogeneous.
	HeadingSizes []float64
}

// Build computes the profile for a document's spans. Deterministic given the
// span multiset; an empty slice yields an empty profile.
func Build(spans []span.TextSpan) Profile {
	hist := make(map[int]int, 8)
	for _, s := range spans {
		hist[span.SizeKey(s.FontSize)]++
	}
	if len(hist) == 0 {
		return Profile{}
	}

	// Modal size wins; on a frequency tie the smallest size is body.
	bodyKey, bodyCount := 0, -1
	for k, n := range hist {
		if n > bodyCount || (n == bodyCount && k < bodyKey) {
			bodyKey, bodyCount = k, n
		}
	}

	var candidates []int
	for k := range hist {
		if k > bodyKey {
			candidates = append(candidates, k)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(candidates)))
	if len(candidates) > maxHeadingLevels {
		candidates = candidates[:maxHeadingLevels]
	}

	p := Profile{BodySize: float64(bodyKey) / 10}
	for _, k := range candidates {
		p.HeadingSizes = append(p.HeadingSizes, float64(k)/10)
	}
	return p
}

// Level returns the heading level assigned to an exact size, if any.
func (p Profile) Level(size float64) (span.Level, bool) {
	key := span.SizeKey(size)
	for i, hs := range p.HeadingSizes {
		if span.SizeKey(hs) == key {
			return span.LevelH1 + span.Level(i), true
		}
	}
	return span.LevelBody, false
}

// Largest returns the H1 size, the single largest heading size.
func (p Profile) Largest() (float64, bool) {
	if len(p.HeadingSizes) == 0 {
		return 0, false
	}
	return p.HeadingSizes[0], true
}

// Smallest returns the lowest assigned heading size, the floor of the
// jitter band.
func (p Profile) Smallest() (float64, bool) {
	if len(p.HeadingSizes) == 0 {
		return 0, false
	}
	return p.HeadingSizes[len(p.HeadingSizes)-1], true
}
