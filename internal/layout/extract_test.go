package layout

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	pdflib "github.com/ledongthuc/pdf"
)

type textAt struct {
	x, y float64
	s    string
}

// contentStream renders positioned text operators for one page.
func contentStream(texts []textAt) string {
	var sb strings.Builder
	sb.WriteString("BT\n/F1 10 Tf\n")
	for _, t := range texts {
		fmt.Fprintf(&sb, "1 0 0 1 %g %g Tm\n(%s) Tj\n", t.x, t.y, t.s)
	}
	sb.WriteString("ET")
	return sb.String()
}

// buildPDF assembles a minimal but well-formed PDF with one page per content
// stream. Uniform 500/1000em glyph widths keep fragment X positions
// monotonic so extraction sees realistic geometry.
func buildPDF(t *testing.T, streams ...string) []byte {
	t.Helper()

	widths := make([]string, 95) // chars 32..126
	for i := range widths {
		widths[i] = "500"
	}

	n := len(streams)
	kids := make([]string, 0, n)
	for i := 0; i < n; i++ {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+i))
	}

	objs := []string{
		"<< /Type /Catalog /Pages 2 0 R >>",
		fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d /MediaBox [0 0 612 792] >>", strings.Join(kids, " "), n),
		fmt.Sprintf("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [%s] >>", strings.Join(widths, " ")),
	}
	for i := 0; i < n; i++ {
		objs = append(objs, fmt.Sprintf("<< /Type /Page /Parent 2 0 R /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 4+n+i))
	}
	for _, s := range streams {
		objs = append(objs, fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(s), s))
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objs)+1)
	for i, obj := range objs {
		offsets[i+1] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}
	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objs)+1)
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= len(objs); i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(objs)+1, xrefPos)
	return buf.Bytes()
}

func TestExtractPages_TwoColumnSharedBaselines(t *testing.T) {
	// Left and right column lines share baselines, the shape of every
	// two-column paper. Each column must come out as its own block, in
	// left-then-right reading order, with no line mixing columns.
	data := buildPDF(t, contentStream([]textAt{
		{50, 700, "left alpha one"},
		{330, 700, "right omega one"},
		{50, 688, "left alpha two"},
		{330, 688, "right omega two"},
		{50, 676, "left alpha three"},
		{330, 676, "right omega three"},
	}))

	pages, err := ExtractPages(data, 0)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(pages) != 1 {
		t.Fatalf("expected 1 page, got %d", len(pages))
	}

	ordered := Reconstruct(pages[0], DefaultConfig())
	var got []string
	for _, ln := range FlattenLines(ordered) {
		if ln != "" {
			got = append(got, ln)
		}
	}

	want := []string{
		"left alpha one", "left alpha two", "left alpha three",
		"right omega one", "right omega two", "right omega three",
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(got), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("position %d: expected %q, got %q", i, want[i], got[i])
		}
	}
	for _, ln := range got {
		if strings.Contains(ln, "left") && strings.Contains(ln, "right") {
			t.Errorf("line merges both columns: %q", ln)
		}
	}
}

func TestExtractPages_PageLimit(t *testing.T) {
	data := buildPDF(t,
		contentStream([]textAt{{50, 700, "first page text"}}),
		contentStream([]textAt{{50, 700, "second page text"}}),
	)

	pages, err := ExtractPages(data, 0)
	if err != nil {
		t.Fatalf("ExtractPages: %v", err)
	}
	if len(pages) != 2 {
		t.Fatalf("expected 2 pages, got %d", len(pages))
	}

	pages, err = ExtractPages(data, 1)
	if err != nil {
		t.Fatalf("ExtractPages with limit: %v", err)
	}
	if len(pages) != 1 {
		t.Errorf("expected limit to keep 1 page, got %d", len(pages))
	}
}

func TestExtractPages_NotAPDF(t *testing.T) {
	if _, err := ExtractPages([]byte("<html>not a paper</html>"), 0); err == nil {
		t.Error("expected error for non-PDF input")
	}
}

func TestSplitRow_SameBaselineColumnsSeparate(t *testing.T) {
	row := &pdflib.Row{Position: 700, Content: pdflib.TextHorizontal{
		{S: "left text here", X: 50, Y: 700, FontSize: 10},
		{S: "right text here", X: 330, Y: 700, FontSize: 10},
	}}
	lines := splitRow(row, 792)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].text != "left text here" || lines[1].text != "right text here" {
		t.Errorf("unexpected split: %q / %q", lines[0].text, lines[1].text)
	}
	if lines[0].y != 92 {
		t.Errorf("expected top-origin y 92, got %g", lines[0].y)
	}
	if lines[1].x0 != 330 {
		t.Errorf("expected right fragment to keep its own origin, got x0 %g", lines[1].x0)
	}
}

func TestSplitRow_WordGapBecomesSpace(t *testing.T) {
	// "Hello" ends at 75; "world" starts at 80. The 5pt gap is a word
	// boundary, not a column gutter.
	row := &pdflib.Row{Position: 700, Content: pdflib.TextHorizontal{
		{S: "Hello", X: 50, Y: 700, FontSize: 10},
		{S: "world", X: 80, Y: 700, FontSize: 10},
	}}
	lines := splitRow(row, 792)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].text != "Hello world" {
		t.Errorf("expected %q, got %q", "Hello world", lines[0].text)
	}
}

func TestSplitRow_ZeroFontSizeStillHasWidth(t *testing.T) {
	// Some streams never set a font size; the right edge must still extend
	// past the origin or a right-column line classifies as left.
	row := &pdflib.Row{Position: 700, Content: pdflib.TextHorizontal{
		{S: "right column text", X: 320, Y: 700, FontSize: 0},
	}}
	lines := splitRow(row, 792)
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	if lines[0].x1 <= lines[0].x0 {
		t.Errorf("expected positive width, got x0 %g x1 %g", lines[0].x0, lines[0].x1)
	}
	if lines[0].fontSize != fallbackFontSize {
		t.Errorf("expected fallback font size %g, got %g", fallbackFontSize, lines[0].fontSize)
	}
}

func TestBuildBlocks_InterleavedColumnLines(t *testing.T) {
	// Lines alternate between columns in y order; each column must still
	// accumulate into a single block.
	lines := []line{
		{text: "L1", x0: 50, x1: 120, y: 92, fontSize: 10},
		{text: "R1", x0: 330, x1: 400, y: 92, fontSize: 10},
		{text: "L2", x0: 50, x1: 120, y: 104, fontSize: 10},
		{text: "R2", x0: 330, x1: 400, y: 104, fontSize: 10},
	}
	blocks := buildBlocks(lines, 1)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if strings.Join(blocks[0].Lines, "|") != "L1|L2" {
		t.Errorf("left block lines: %v", blocks[0].Lines)
	}
	if strings.Join(blocks[1].Lines, "|") != "R1|R2" {
		t.Errorf("right block lines: %v", blocks[1].Lines)
	}
}
