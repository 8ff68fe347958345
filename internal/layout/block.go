// Package layout recovers a logical reading order from the raw geometry of a
// PDF page: positioned text blocks are extracted per page, classified as
// full-width / left-column / right-column, and emitted as a single stream of
// lines suitable for paragraph reconstruction.
package layout

// Block is a geometrically contiguous run of text on one page. Coordinates use
// a top-left origin, so Y0 ascending means top to bottom. A Block is owned by
// the page that produced it and is never mutated after extraction.
type Block struct {
	Page  int // 1-based page number
	X0    float64
	Y0    float64
	X1    float64
	Y1    float64
	Lines []string
}

// Width returns the horizontal span of the block.
func (b *Block) Width() float64 {
	return b.X1 - b.X0
}

// Page holds the extracted blocks of a single PDF page along with the page
// dimensions needed for column classification.
type Page struct {
	Number int
	Width  float64
	Height float64
	Blocks []Block
}

type column int

const (
	columnFull column = iota
	columnLeft
	columnRight
)
