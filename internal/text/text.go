// Package text lays out uppercase words as pixel-font blocks.
package text

import (
	"image/color"
	"strings"

	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

// Measurer reports the pixel size of a string.
type Measurer interface {
	MeasureText(text string, scale float64) (width, height int)
}

// Block is a run of words drawn on one or more lines.
type Block struct {
	Lines [][]string
	Scale float64
	Color color.Color

	pos        world.Point
	lineHeight float64
	width      float64
	spaceWidth float64
	m          Measurer
}

// NewBlock lays out words on a single line.
func NewBlock(m Measurer, words []string, scale float64, clr color.Color) *Block {
	return NewWrappedBlock(m, words, scale, clr, 0)
}

// NewWrappedBlock lays out words, starting a new line whenever the next word
// would exceed maxWidth. A maxWidth of zero never wraps.
func NewWrappedBlock(m Measurer, words []string, scale float64, clr color.Color, maxWidth float64) *Block {
	b := &Block{Scale: scale, Color: clr, m: m}
	sw, lh := m.MeasureText(" ", scale)
	b.spaceWidth = float64(sw)
	b.lineHeight = float64(lh)

	var line []string
	lineWidth := 0.0
	for _, w := range words {
		w = strings.ToUpper(w)
		ww := b.wordWidth(w)
		next := ww
		if len(line) > 0 {
			next = lineWidth + b.spaceWidth + ww
		}
		if maxWidth > 0 && len(line) > 0 && next > maxWidth {
			b.Lines = append(b.Lines, line)
			b.width = max(b.width, lineWidth)
			line, lineWidth = nil, ww
		} else {
			lineWidth = next
		}
		line = append(line, w)
	}
	if len(line) > 0 {
		b.Lines = append(b.Lines, line)
		b.width = max(b.width, lineWidth)
	}
	return b
}

func (b *Block) wordWidth(w string) float64 {
	width, _ := b.m.MeasureText(w, b.Scale)
	return float64(width)
}

// Size returns the block's pixel size.
func (b *Block) Size() (float64, float64) {
	return b.width, b.lineHeight * float64(len(b.Lines))
}

// LineHeight returns the height of one line.
func (b *Block) LineHeight() float64 { return b.lineHeight }

// WordCount returns the number of words in the block.
func (b *Block) WordCount() int {
	n := 0
	for _, line := range b.Lines {
		n += len(line)
	}
	return n
}

// Move places the block's top-left corner.
func (b *Block) Move(p world.Point) { b.pos = p }

// Pos returns the block's top-left corner.
func (b *Block) Pos() world.Point { return b.pos }

// Draw draws every word.
func (b *Block) Draw(c *render.Canvas) {
	b.DrawWords(c, b.WordCount())
}

// DrawWords draws the first n words, keeping the final layout so revealed
// words do not shift.
func (b *Block) DrawWords(c *render.Canvas, n int) {
	y := b.pos.Y
	for _, line := range b.Lines {
		x := b.pos.X
		for _, w := range line {
			if n <= 0 {
				return
			}
			c.DrawText(w, x, y, b.Color, b.Scale)
			x += b.wordWidth(w) + b.spaceWidth
			n--
		}
		y += b.lineHeight
	}
}
