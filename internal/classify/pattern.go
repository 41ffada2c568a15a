package classify

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dgallion1/pdfoutline/internal/fontstats"
	"github.com/dgallion1/pdfoutline/internal/span"
)

// Pattern extends SizeRank with text-shape hints: body-ranked spans whose
// text looks like a conventional heading are lifted to H3. Useful for
// documents that set headings in the body size, at the cost of false
// positives on decorated prose. Not the default.
type Pattern struct {
	Fold FoldMode
}

var headingShapes = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^(chapter|section|part)\s+\d+`),
	regexp.MustCompile(`(?i)^(introduction|conclusion|summary|abstract)\b`),
	regexp.MustCompile(`^\d+\.\s+\w+`),
}

func (c Pattern) Classify(spans []span.TextSpan, profile fontstats.Profile) []span.Labeled {
	labeled := SizeRank{Fold: c.Fold}.Classify(spans, profile)
	for i, l := range labeled {
		if l.Level != span.LevelBody {
			continue
		}
		if matchesHeadingShape(span.Normalize(l.Span.Text)) {
			labeled[i].Level = span.LevelH3
		}
	}
	return labeled
}

func matchesHeadingShape(text string) bool {
	if text == "" {
		return false
	}
	for _, re := range headingShapes {
		if re.MatchString(text) {
			return true
		}
	}
	return isShortAllCaps(text)
}

// isShortAllCaps matches lines like "APPENDIX A": at least four letters, all
// upper case, short enough to be a heading rather than a shouted paragraph.
func isShortAllCaps(text string) bool {
	if len(text) < 4 || len(text) > 60 {
		return false
	}
	letters := 0
	for _, r := range text {
		switch {
		case unicode.IsLetter(r):
			if !unicode.IsUpper(r) {
				return false
			}
			letters++
		case unicode.IsDigit(r) || unicode.IsSpace(r):
		case strings.ContainsRune(".,:;-&", r):
		default:
			return false
		}
	}
	return letters >= 4
}
