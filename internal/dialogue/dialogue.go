// Package dialogue implements the dialogue box: a queue of word pages shown
// one at a time, each revealed word by word.
package dialogue

import (
	"image/color"
	"time"

	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/text"
	"chosenoffset.com/buddies/internal/world"
)

const (
	margin  = 4
	padding = 6

	// centerNudge lifts the text block above the box's true vertical
	// center; the pixel font's cell has empty rows at the bottom.
	centerNudge = 2
)

// Sequence is a run of pages followed by the state to enter once the last
// page is dismissed.
type Sequence struct {
	Pages [][]string
	Next  string
}

// Style is the look and pacing of a box.
type Style struct {
	WordInterval time.Duration
	TextScale    float64
	Height       float64
	Fill         color.Color
	Border       color.Color
	Text         color.Color
}

// Box shows the pages of one Sequence at a time.
type Box struct {
	style Style
	m     text.Measurer

	queue   [][]string
	next    string
	shownAt time.Duration
	visible bool
	block   *text.Block
	width   float64
}

// NewBox creates a hidden box.
func NewBox(m text.Measurer, style Style) *Box {
	return &Box{m: m, style: style}
}

// Show replaces whatever the box was showing with seq. A sequence without
// pages leaves the box hidden; callers check Visible.
func (b *Box) Show(seq Sequence, now time.Duration) {
	b.queue = append(b.queue[:0], seq.Pages...)
	b.next = seq.Next
	b.shownAt = now
	b.block = nil
	b.visible = len(b.queue) > 0
}

// Visible reports whether a page is on screen.
func (b *Box) Visible() bool { return b.visible }

// Page returns the words of the current page, or nil when hidden.
func (b *Box) Page() []string {
	if !b.visible {
		return nil
	}
	return b.queue[0]
}

// Remaining returns the number of queued pages, the current one included.
func (b *Box) Remaining() int { return len(b.queue) }

// Advance dismisses the current page. When that empties the queue the box
// hides and Advance returns the sequence's next state with done set. It
// does nothing while hidden, so a sequence completes exactly once.
func (b *Box) Advance(now time.Duration) (next string, done bool) {
	if !b.visible {
		return "", false
	}
	b.queue = b.queue[1:]
	b.block = nil
	b.shownAt = now
	if len(b.queue) > 0 {
		return "", false
	}
	b.visible = false
	next, b.next = b.next, ""
	return next, true
}

// Hide drops every queued page without completing the sequence.
func (b *Box) Hide() {
	b.queue = b.queue[:0]
	b.block = nil
	b.visible = false
	b.next = ""
}

// Revealed returns how many words of the current page are shown at now.
// The first word appears immediately.
func (b *Box) Revealed(now time.Duration) int {
	if !b.visible {
		return 0
	}
	n := len(b.queue[0])
	if b.style.WordInterval <= 0 {
		return n
	}
	elapsed := now - b.shownAt
	if elapsed < 0 {
		elapsed = 0
	}
	return min(n, 1+int(elapsed/b.style.WordInterval))
}

// Rect returns the box's screen rectangle for a screen of the given width
// and height.
func (b *Box) Rect(screenW, screenH float64) (x, y, w, h float64) {
	h = b.style.Height
	return margin, screenH - h - margin, screenW - 2*margin, h
}

// Draw draws the box in screen space at the bottom of the canvas.
func (b *Box) Draw(c *render.Canvas, now time.Duration) {
	if !b.visible {
		return
	}
	sw, sh := c.Size()
	x, y, w, h := b.Rect(float64(sw), float64(sh))

	if b.block == nil || b.width != w {
		b.block = text.NewWrappedBlock(b.m, b.queue[0], b.style.TextScale, b.style.Text, w-2*padding)
		b.width = w
	}

	c.FillRect(x, y, w, h, b.style.Fill)
	c.StrokeRect(x, y, w, h, 1, b.style.Border)

	_, th := b.block.Size()
	b.block.Move(world.Point{
		X: x + padding,
		Y: y + (h-th)/2 - centerNudge,
	})
	b.block.DrawWords(c, b.Revealed(now))
}
