package parser

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dgallion1/pdfoutline/internal/pdftest"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeFixture(t *testing.T, name string, pages []pdftest.Page) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, pdftest.Build(pages), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestExtract_SpanPerStyleRun(t *testing.T) {
	path := writeFixture(t, "report.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "Annual Report", Size: 24, X: 72, Y: 720},
		{Value: "Overview", Size: 16, X: 72, Y: 680},
		{Value: "This is the body text", Size: 12, X: 72, Y: 650},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if doc.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", doc.PageCount)
	}
	if len(doc.Spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(doc.Spans), doc.Spans)
	}

	want := []struct {
		text string
		size float64
	}{
		{"Annual Report", 24},
		{"Overview", 16},
		{"This is the body text", 12},
	}
	for i, w := range want {
		got := doc.Spans[i]
		if got.Text != w.text {
			t.Fatalf("span %d: expected text %q, got %q", i, w.text, got.Text)
		}
		if got.FontSize != w.size {
			t.Fatalf("span %d: expected size %v, got %v", i, w.size, got.FontSize)
		}
		if got.Page != 0 {
			t.Fatalf("span %d: expected page 0, got %d", i, got.Page)
		}
	}
}

func TestExtract_MergesFragmentsOnOneLine(t *testing.T) {
	// "Chapter" ends at x=118.7; "One" at x=126 leaves a word gap.
	// "base" starts exactly where "Data" ends, so no space is restored.
	path := writeFixture(t, "lines.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "Chapter", Size: 12, X: 72, Y: 700},
		{Value: "One", Size: 12, X: 126, Y: 700},
		{Value: "Data", Size: 12, X: 72, Y: 660},
		{Value: "base", Size: 12, X: 98.688, Y: 660},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 2 {
		t.Fatalf("expected 2 spans, got %d: %+v", len(doc.Spans), doc.Spans)
	}
	if doc.Spans[0].Text != "Chapter One" {
		t.Fatalf("expected %q, got %q", "Chapter One", doc.Spans[0].Text)
	}
	if doc.Spans[1].Text != "Database" {
		t.Fatalf("expected %q, got %q", "Database", doc.Spans[1].Text)
	}
}

func TestExtract_SplitsOnSizeAndWeight(t *testing.T) {
	path := writeFixture(t, "styles.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "Intro", Size: 14, X: 72, Y: 700},
		{Value: "note", Size: 9, X: 200, Y: 700},
		{Value: "Bold", Font: "F2", Size: 12, X: 72, Y: 660},
		{Value: "plain", Size: 12, X: 150, Y: 660},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}

	want := []struct {
		text string
		size float64
		bold bool
	}{
		{"Intro", 14, false},
		{"note", 9, false},
		{"Bold", 12, true},
		{"plain", 12, false},
	}
	if len(doc.Spans) != len(want) {
		t.Fatalf("expected %d spans, got %d: %+v", len(want), len(doc.Spans), doc.Spans)
	}
	for i, w := range want {
		got := doc.Spans[i]
		if got.Text != w.text || got.FontSize != w.size || got.Bold != w.bold {
			t.Fatalf("span %d: expected %+v, got %+v", i, w, got)
		}
	}
}

func TestExtract_JitteredBaselinesShareARow(t *testing.T) {
	path := writeFixture(t, "jitter.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "Left", Size: 12, X: 72, Y: 700},
		{Value: "Right", Size: 12, X: 150, Y: 698.5},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 1 {
		t.Fatalf("expected one merged span, got %d: %+v", len(doc.Spans), doc.Spans)
	}
	if doc.Spans[0].Text != "Left Right" {
		t.Fatalf("expected %q, got %q", "Left Right", doc.Spans[0].Text)
	}
}

func TestExtract_CustomRowTolerance(t *testing.T) {
	// 5pt of baseline drift: beyond the default tolerance, within a
	// widened one.
	path := writeFixture(t, "drift.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "Left", Size: 12, X: 72, Y: 700},
		{Value: "Right", Size: 12, X: 150, Y: 695},
	}}})

	ex := NewPDFExtractor(testLogger())
	doc, err := ex.Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 2 {
		t.Fatalf("expected separate rows at the default tolerance, got %+v", doc.Spans)
	}

	ex.RowTolerance = 6
	doc, err = ex.Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 1 || doc.Spans[0].Text != "Left Right" {
		t.Fatalf("expected one merged row at tolerance 6, got %+v", doc.Spans)
	}
}

func TestExtract_QuantizesNearbySizes(t *testing.T) {
	path := writeFixture(t, "quantize.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "AB", Size: 12.04, X: 72, Y: 700},
		{Value: "CD", Size: 11.96, X: 90, Y: 700},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 1 {
		t.Fatalf("expected sizes within 0.1pt to merge, got %+v", doc.Spans)
	}
	if doc.Spans[0].FontSize != 12.0 {
		t.Fatalf("expected quantized size 12.0, got %v", doc.Spans[0].FontSize)
	}
	if doc.Spans[0].Text != "AB CD" {
		t.Fatalf("expected %q, got %q", "AB CD", doc.Spans[0].Text)
	}
}

func TestExtract_MultiPage(t *testing.T) {
	path := writeFixture(t, "two.pdf", []pdftest.Page{
		{Texts: []pdftest.Text{{Value: "First", Size: 12, X: 72, Y: 700}}},
		{Texts: []pdftest.Text{{Value: "Second", Size: 12, X: 72, Y: 700}}},
	})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if doc.PageCount != 2 {
		t.Fatalf("expected 2 pages, got %d", doc.PageCount)
	}
	if len(doc.Spans) != 2 {
		t.Fatalf("expected 2 spans, got %d", len(doc.Spans))
	}
	if doc.Spans[0].Page != 0 || doc.Spans[1].Page != 1 {
		t.Fatalf("expected page indices 0 and 1, got %d and %d", doc.Spans[0].Page, doc.Spans[1].Page)
	}
}

func TestExtract_EmptyPage(t *testing.T) {
	path := writeFixture(t, "empty.pdf", []pdftest.Page{{}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("expected empty page to extract cleanly, got %v", err)
	}
	if doc.PageCount != 1 {
		t.Fatalf("expected 1 page, got %d", doc.PageCount)
	}
	if len(doc.Spans) != 0 {
		t.Fatalf("expected no spans, got %+v", doc.Spans)
	}
}

func TestExtract_WhitespaceOnlyTextDropped(t *testing.T) {
	path := writeFixture(t, "blank.pdf", []pdftest.Page{{Texts: []pdftest.Text{
		{Value: "   ", Size: 12, X: 72, Y: 700},
	}}})

	doc, err := NewPDFExtractor(testLogger()).Extract(path)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if len(doc.Spans) != 0 {
		t.Fatalf("expected whitespace-only text to drop, got %+v", doc.Spans)
	}
}

func TestExtract_PageDetailAtDebugLevel(t *testing.T) {
	path := writeFixture(t, "pages.pdf", []pdftest.Page{
		{Texts: []pdftest.Text{{Value: "First", Size: 12, X: 72, Y: 700}}},
		{Texts: []pdftest.Text{{Value: "Second", Size: 12, X: 72, Y: 700}}},
	})

	var buf bytes.Buffer
	info := slog.New(slog.NewTextHandler(&buf, nil))
	if _, err := NewPDFExtractor(info).Extract(path); err != nil {
		t.Fatalf("extract: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected a clean file to log nothing at the default level, got %q", buf.String())
	}

	debug := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	if _, err := NewPDFExtractor(debug).Extract(path); err != nil {
		t.Fatalf("extract: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "extracted page spans"); got != 2 {
		t.Fatalf("expected a debug record per page, got %d in %q", got, out)
	}
	if !strings.Contains(out, "spans=1") {
		t.Fatalf("expected span counts in the debug records, got %q", out)
	}
}

func TestExtract_UnreadableFiles(t *testing.T) {
	dir := t.TempDir()

	empty := filepath.Join(dir, "empty.pdf")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		t.Fatal(err)
	}

	for _, path := range []string{empty, filepath.Join(dir, "missing.pdf")} {
		_, err := NewPDFExtractor(testLogger()).Extract(path)
		if err == nil {
			t.Fatalf("expected error for %s", path)
		}
		var ue *UnreadableError
		if !errors.As(err, &ue) {
			t.Fatalf("expected UnreadableError for %s, got %T: %v", path, err, err)
		}
	}
}

func TestBoldFont(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"Helvetica-Bold", true},
		{"Arial-BoldMT", true},
		{"Arial Black", true},
		{"SourceSans-Heavy", true},
		{"Lato-Semibold", true},
		{"Helvetica", false},
		{"Times-Roman", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := boldFont(tt.name); got != tt.want {
			t.Fatalf("boldFont(%q): expected %v, got %v", tt.name, tt.want, got)
		}
	}
}
