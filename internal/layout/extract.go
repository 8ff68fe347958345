package layout

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	pdflib "github.com/ledongthuc/pdf"
)

// Extraction tunables. These are empirical; see Config for the knobs that
// callers are expected to adjust.
const (
	defaultPageWidth  = 612.0 // US Letter, in PDF units
	defaultPageHeight = 792.0
	glyphWidthFactor  = 0.5  // approximate glyph width as a fraction of font size
	fallbackFontSize  = 10.0 // for fragments that report no font size

	// columnGapFactor is the horizontal gap, in font sizes, beyond which two
	// fragments on the same baseline belong to different columns. Column
	// gutters in two-column papers run well past two line heights; gaps
	// between words never do.
	columnGapFactor = 2.0
	// wordGapFactor is the smaller gap that marks a word boundary the
	// content stream encoded as glyph positioning instead of a space.
	wordGapFactor = 0.3
)

// line is an intermediate row of text with its estimated horizontal extent.
type line struct {
	text     string
	x0, x1   float64
	y        float64
	fontSize float64
}

// ExtractPages reads up to maxPages pages from raw PDF bytes and returns the
// positioned text blocks of each page. A page that cannot be parsed
// contributes no blocks; only a document that cannot be opened at all is an
// error.
func ExtractPages(data []byte, maxPages int) ([]Page, error) {
	reader, err := pdflib.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open pdf: %w", err)
	}

	total := reader.NumPage()
	if maxPages > 0 && total > maxPages {
		total = maxPages
	}

	var pages []Page
	for num := 1; num <= total; num++ {
		page, ok := extractPage(reader, num)
		if !ok {
			continue
		}
		pages = append(pages, page)
	}

	if len(pages) == 0 {
		return nil, fmt.Errorf("no extractable pages in pdf")
	}
	return pages, nil
}

// extractPage pulls the text rows of one page and groups them into blocks.
// The pdf library panics on some malformed content streams, so recover and
// treat such pages as empty.
func extractPage(reader *pdflib.Reader, num int) (page Page, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	p := reader.Page(num)
	if p.V.IsNull() {
		return Page{}, false
	}

	width, height := pageSize(p)

	rows, err := p.GetTextByRow()
	if err != nil {
		return Page{}, false
	}

	var lines []line
	for _, row := range rows {
		lines = append(lines, splitRow(row, height)...)
	}
	if len(lines) == 0 {
		return Page{}, false
	}

	sort.SliceStable(lines, func(i, j int) bool {
		if lines[i].y != lines[j].y {
			return lines[i].y < lines[j].y
		}
		return lines[i].x0 < lines[j].x0
	})

	return Page{
		Number: num,
		Width:  width,
		Height: height,
		Blocks: buildBlocks(lines, num),
	}, true
}

// splitRow turns one reported row into line fragments. The library groups
// fragments by integer baseline across the whole page, so on a two-column
// layout the left and right columns of the same baseline arrive as a single
// row; concatenating them would interleave the columns line by line. Split
// wherever the horizontal gap between consecutive fragments is wider than a
// column gutter, and re-insert a space for the smaller word-level gaps. The
// library reports only glyph origins, so fragment right edges are
// approximated from text length and font size.
func splitRow(row *pdflib.Row, pageHeight float64) []line {
	frags := make([]pdflib.Text, 0, len(row.Content))
	for _, t := range row.Content {
		if t.S == "" {
			continue
		}
		frags = append(frags, t)
	}
	if len(frags) == 0 {
		return nil
	}
	sort.SliceStable(frags, func(i, j int) bool { return frags[i].X < frags[j].X })

	var out []line
	var sb strings.Builder
	var x0, x1, y, totalSize float64
	count := 0

	flush := func() {
		if text := strings.TrimSpace(sb.String()); text != "" {
			out = append(out, line{
				text:     text,
				x0:       x0,
				x1:       x1,
				y:        pageHeight - y, // flip to top-origin
				fontSize: totalSize / float64(count),
			})
		}
		sb.Reset()
		count = 0
		totalSize = 0
	}

	for _, t := range frags {
		size := t.FontSize
		if size <= 0 {
			size = fallbackFontSize
		}
		if count > 0 {
			gap := t.X - x1
			if gap > size*columnGapFactor {
				flush()
			} else if gap > size*wordGapFactor {
				sb.WriteString(" ")
			}
		}
		if count == 0 {
			x0, x1, y = t.X, t.X, t.Y
		}
		sb.WriteString(t.S)
		if right := t.X + float64(len(t.S))*size*glyphWidthFactor; right > x1 {
			x1 = right
		}
		totalSize += size
		count++
	}
	flush()
	return out
}

// buildBlocks groups vertically adjacent, horizontally overlapping lines into
// blocks. Lines arrive sorted top to bottom with both columns interleaved, so
// several blocks stay open at once; a line joins the first open block it
// overlaps horizontally within a line-gap threshold. Lines in different
// columns never overlap horizontally, so each column grows its own blocks.
func buildBlocks(lines []line, pageNum int) []Block {
	type openBlock struct {
		b        Block
		lastY    float64
		lastSize float64
	}
	var open []*openBlock

	for _, ln := range lines {
		lineHeight := ln.fontSize * 1.2

		var target *openBlock
		for _, ob := range open {
			gap := ln.y - ob.lastY
			maxGap := max(ob.lastSize, ln.fontSize) * 1.8
			if gap >= 0 && gap <= maxGap && overlaps(ob.b.X0, ob.b.X1, ln.x0, ln.x1) {
				target = ob
				break
			}
		}
		if target != nil {
			target.b.Lines = append(target.b.Lines, ln.text)
			target.b.X0 = min(target.b.X0, ln.x0)
			target.b.X1 = max(target.b.X1, ln.x1)
			target.b.Y1 = ln.y + lineHeight
			target.lastY, target.lastSize = ln.y, ln.fontSize
			continue
		}
		open = append(open, &openBlock{
			b: Block{
				Page:  pageNum,
				X0:    ln.x0,
				Y0:    ln.y,
				X1:    ln.x1,
				Y1:    ln.y + lineHeight,
				Lines: []string{ln.text},
			},
			lastY:    ln.y,
			lastSize: ln.fontSize,
		})
	}

	blocks := make([]Block, 0, len(open))
	for _, ob := range open {
		blocks = append(blocks, ob.b)
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].Y0 != blocks[j].Y0 {
			return blocks[i].Y0 < blocks[j].Y0
		}
		return blocks[i].X0 < blocks[j].X0
	})
	return blocks
}

// pageSize resolves the page MediaBox, walking up the page tree for inherited
// boxes. Falls back to US Letter when nothing usable is found.
func pageSize(p pdflib.Page) (width, height float64) {
	v := p.V
	for i := 0; i < 8; i++ {
		if v.IsNull() {
			break
		}
		box := v.Key("MediaBox")
		if box.Kind() == pdflib.Array && box.Len() == 4 {
			w := num(box.Index(2)) - num(box.Index(0))
			h := num(box.Index(3)) - num(box.Index(1))
			if w > 0 && h > 0 {
				return w, h
			}
		}
		v = v.Key("Parent")
	}
	return defaultPageWidth, defaultPageHeight
}

func num(v pdflib.Value) float64 {
	switch v.Kind() {
	case pdflib.Integer:
		return float64(v.Int64())
	case pdflib.Real:
		return v.Float64()
	}
	return 0
}

func overlaps(a0, a1, b0, b1 float64) bool {
	return a0 < b1 && b0 < a1
}
