package parser

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/dgallion1/pdfoutline/internal/span"
)

// defaultRowTolerance is the vertical distance, in points, within which
// two text fragments count as the same line.
const defaultRowTolerance = 3.0

// PDFExtractor reads a PDF from disk and emits one span per run of
// same-sized, same-weight text on a line.
type PDFExtractor struct {
	// RowTolerance overrides the line-grouping distance when > 0.
	RowTolerance float64

	log *slog.Logger
}

func NewPDFExtractor(log *slog.Logger) *PDFExtractor {
	return &PDFExtractor{log: log}
}

// Extract implements Extractor. The file is preflighted with pdfcpu
// before text extraction; a failure there, or an unopenable file,
// yields an UnreadableError. Pages that fail to decode individually are
// logged and skipped so one corrupt page does not discard a document.
func (e *PDFExtractor) Extract(path string) (*Document, error) {
	preflightPages, err := preflight(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}

	f, reader, err := openPDF(path)
	if err != nil {
		return nil, &UnreadableError{Path: path, Err: err}
	}
	defer f.Close()

	doc := &Document{PageCount: max(preflightPages, reader.NumPage())}
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := pageContent(page)
		if err != nil {
			e.log.Warn("skipping undecodable page", "path", path, "page", i, "error", err)
			continue
		}
		spans := e.buildSpans(content.Text, i-1)
		doc.Spans = append(doc.Spans, spans...)
		e.log.Debug("extracted page spans", "path", path, "page", i, "spans", len(spans))
	}
	return doc, nil
}

// preflight validates the file structure with pdfcpu and returns its
// page count.
func preflight(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open pdf: %w", err)
	}
	pages, err := api.PageCount(f, nil)
	f.Close()
	if err != nil {
		return 0, fmt.Errorf("preflight: %w", err)
	}
	if pages <= 0 {
		return 0, fmt.Errorf("preflight: document has no pages")
	}
	return pages, nil
}

// openPDF wraps pdflib.Open. The library signals malformed cross
// reference tables by panicking, so the panic is converted into an
// error here.
func openPDF(path string) (f *os.File, r *pdflib.Reader, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			if f != nil {
				f.Close()
			}
			f, r = nil, nil
			err = fmt.Errorf("open pdf: %v", rec)
		}
	}()
	f, r, err = pdflib.Open(path)
	if err != nil {
		err = fmt.Errorf("open pdf: %w", err)
	}
	return f, r, err
}

// pageContent wraps Page.Content, which panics on undecodable content
// streams.
func pageContent(p pdflib.Page) (content pdflib.Content, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("decode page content: %v", rec)
		}
	}()
	return p.Content(), nil
}

type textRow struct {
	y     float64
	texts []pdflib.Text
}

// buildSpans groups the per-glyph fragments of one page into spans.
// Fragments are binned into rows by vertical position, ordered left to
// right, then split wherever the quantized size or weight changes.
// Word gaps wider than the spacing threshold are restored as single
// spaces.
func (e *PDFExtractor) buildSpans(texts []pdflib.Text, page int) []span.TextSpan {
	filtered := make([]pdflib.Text, 0, len(texts))
	for _, t := range texts {
		if t.FontSize <= 0 || strings.TrimSpace(t.S) == "" {
			continue
		}
		filtered = append(filtered, t)
	}
	if len(filtered) == 0 {
		return nil
	}

	sort.SliceStable(filtered, func(i, j int) bool { return filtered[i].Y > filtered[j].Y })

	var rows []textRow
	tol := e.RowTolerance
	if tol <= 0 {
		tol = defaultRowTolerance
	}
	for _, t := range filtered {
		if len(rows) > 0 && math.Abs(rows[len(rows)-1].y-t.Y) <= tol {
			last := &rows[len(rows)-1]
			last.texts = append(last.texts, t)
			continue
		}
		rows = append(rows, textRow{y: t.Y, texts: []pdflib.Text{t}})
	}

	var spans []span.TextSpan
	for _, r := range rows {
		sort.SliceStable(r.texts, func(i, j int) bool { return r.texts[i].X < r.texts[j].X })
		spans = append(spans, splitRow(r, page)...)
	}
	return spans
}

// splitRow turns one row of fragments into spans, breaking on size or
// weight changes and rejoining words across glyph gaps.
func splitRow(r textRow, page int) []span.TextSpan {
	var out []span.TextSpan
	var cur *span.TextSpan
	var b strings.Builder
	var prevEnd float64
	curKey := 0
	curBold := false

	flush := func() {
		if cur == nil {
			return
		}
		cur.Text = b.String()
		if span.Normalize(cur.Text) != "" {
			out = append(out, *cur)
		}
		cur = nil
		b.Reset()
	}

	for _, t := range r.texts {
		key := span.SizeKey(t.FontSize)
		bold := boldFont(t.Font)
		if cur == nil || key != curKey || bold != curBold {
			flush()
			cur = &span.TextSpan{
				FontSize: span.Quantize(t.FontSize),
				Page:     page,
				Bold:     bold,
				X:        t.X,
				Y:        r.y,
			}
			curKey, curBold = key, bold
		} else if gap := t.X - prevEnd; gap > max(0.2*cur.FontSize, 0.5) {
			b.WriteString(" ")
		}
		b.WriteString(t.S)
		prevEnd = t.X + t.W
	}
	flush()
	return out
}

// boldFont reports whether a font name advertises a bold weight, e.g.
// "Helvetica-Bold", "Arial Black" or "SourceSans-Heavy". Subset
// prefixes are already stripped by the reader.
func boldFont(name string) bool {
	n := strings.ToLower(name)
	return strings.Contains(n, "bold") ||
		strings.Contains(n, "black") ||
		strings.Contains(n, "heavy")
}
