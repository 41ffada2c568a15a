// Package pdftest synthesizes minimal PDF documents for parser and
// pipeline tests. The generated files carry real xref tables, font
// widths and per-page content streams, so they survive strict
// preflight as well as full text extraction.
package pdftest

import (
	"fmt"
	"strconv"
	"strings"
)

// Text is one positioned show-text operation on a page.
type Text struct {
	Value string
	Font  string // resource key: "F1" regular, "F2" bold; empty means F1
	Size  float64
	X, Y  float64 // text-space origin, Y measured from the page bottom
}

// Page holds the text operations of one fixture page. An empty Page
// renders as a parseable page with no extractable text.
type Page struct {
	Texts []Text
}

// Build renders the pages into a complete single-xref PDF 1.4 file.
//
// Object layout: 1 catalog, 2 page tree, 3 and 4 the regular and bold
// fonts, then one page object and one content stream per page. Both
// fonts declare uniform 556/1000 glyph widths so horizontal advances,
// and with them word gaps, are exact.
func Build(pages []Page) []byte {
	n := len(pages)
	total := 4 + 2*n

	var b strings.Builder
	b.WriteString("%PDF-1.4\n")

	offsets := make([]int, total+1)

	offsets[1] = b.Len()
	b.WriteString("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")

	kids := make([]string, n)
	for i := range kids {
		kids[i] = fmt.Sprintf("%d 0 R", 5+i)
	}
	offsets[2] = b.Len()
	fmt.Fprintf(&b, "2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", strings.Join(kids, " "), n)

	widths := uniformWidths()
	offsets[3] = b.Len()
	fmt.Fprintf(&b, "3 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /FirstChar 32 /LastChar 126 /Widths %s >>\nendobj\n", widths)

	offsets[4] = b.Len()
	fmt.Fprintf(&b, "4 0 obj\n<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica-Bold /FirstChar 32 /LastChar 126 /Widths %s >>\nendobj\n", widths)

	for i := range pages {
		offsets[5+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] /Resources << /Font << /F1 3 0 R /F2 4 0 R >> >> /Contents %d 0 R >>\nendobj\n", 5+i, 5+n+i)
	}

	for i, p := range pages {
		stream := contentStream(p)
		offsets[5+n+i] = b.Len()
		fmt.Fprintf(&b, "%d 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n", 5+n+i, len(stream), stream)
	}

	xrefOffset := b.Len()
	fmt.Fprintf(&b, "xref\n0 %d\n", total+1)
	b.WriteString("0000000000 65535 f \n")
	for i := 1; i <= total; i++ {
		fmt.Fprintf(&b, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&b, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", total+1, xrefOffset)

	return []byte(b.String())
}

// SinglePage builds a one-page document from the given text operations.
func SinglePage(texts ...Text) []byte {
	return Build([]Page{{Texts: texts}})
}

func contentStream(p Page) string {
	var b strings.Builder
	for _, t := range p.Texts {
		font := t.Font
		if font == "" {
			font = "F1"
		}
		fmt.Fprintf(&b, "BT\n/%s %s Tf\n%s %s Td\n(%s) Tj\nET\n",
			font, num(t.Size), num(t.X), num(t.Y), escapeString(t.Value))
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func escapeString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "(", `\(`)
	s = strings.ReplaceAll(s, ")", `\)`)
	return s
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func uniformWidths() string {
	// codes 32..126 inclusive
	parts := make([]string, 95)
	for i := range parts {
		parts[i] = "556"
	}
	return "[" + strings.Join(parts, " ") + "]"
}
