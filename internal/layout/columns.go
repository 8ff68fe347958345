package layout

import "sort"

// Config controls column classification. The thresholds are empirical and
// tuned against two-column academic layouts; treat them as tunables, not
// derived constants.
type Config struct {
	// FullWidthRatio: a block spanning more than this fraction of the page
	// width is treated as full-width content (titles, abstract banners).
	FullWidthRatio float64
	// CenterTolerance is the band (in PDF units) around the page midline
	// within which a block may touch the center and still count as a clean
	// column member.
	CenterTolerance float64
}

// DefaultConfig returns the classification defaults.
func DefaultConfig() Config {
	return Config{
		FullWidthRatio:  0.7,
		CenterTolerance: 20,
	}
}

// Reconstruct orders the blocks of one page into logical reading order:
// full-width blocks first (top to bottom), then the left column, then the
// right column. A block that straddles the midline without fitting either
// column is promoted to full-width. The order is deterministic for identical
// bounding boxes.
func Reconstruct(p Page, cfg Config) []Block {
	if cfg.FullWidthRatio <= 0 {
		cfg.FullWidthRatio = 0.7
	}
	if cfg.CenterTolerance <= 0 {
		cfg.CenterTolerance = 20
	}

	center := p.Width / 2
	groups := map[column][]Block{}

	for _, b := range p.Blocks {
		col := classify(&b, p.Width, center, cfg)
		groups[col] = append(groups[col], b)
	}

	ordered := make([]Block, 0, len(p.Blocks))
	for _, col := range []column{columnFull, columnLeft, columnRight} {
		blocks := groups[col]
		sort.SliceStable(blocks, func(i, j int) bool {
			if blocks[i].Y0 != blocks[j].Y0 {
				return blocks[i].Y0 < blocks[j].Y0
			}
			return blocks[i].X0 < blocks[j].X0
		})
		ordered = append(ordered, blocks...)
	}
	return ordered
}

func classify(b *Block, pageWidth, center float64, cfg Config) column {
	if b.Width() > cfg.FullWidthRatio*pageWidth {
		return columnFull
	}
	if b.X1 < center+cfg.CenterTolerance {
		return columnLeft
	}
	if b.X0 > center-cfg.CenterTolerance {
		return columnRight
	}
	// Straddles the center without fitting either column.
	return columnFull
}

// FlattenLines returns the lines of already reconstructed blocks as a single
// stream, with a blank line between blocks so downstream paragraph joining
// sees block boundaries.
func FlattenLines(blocks []Block) []string {
	var lines []string
	for i, b := range blocks {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, b.Lines...)
	}
	return lines
}
