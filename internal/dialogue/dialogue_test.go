package dialogue

import (
	"image/color"
	"testing"
	"time"

	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/render/rendertest"
)

func newBox() *Box {
	return NewBox(rendertest.NewRenderer(), Style{
		WordInterval: 60 * time.Millisecond,
		TextScale:    1,
		Height:       44,
		Fill:         color.Black,
		Border:       color.White,
		Text:         color.White,
	})
}

func TestQueueExhaustionFiresNextOnce(t *testing.T) {
	b := newBox()
	b.Show(Sequence{
		Pages: [][]string{{"ONE"}, {"TWO"}, {"THREE"}},
		Next:  "play",
	}, 0)

	fired := 0
	var got string
	for i := 0; i < 5; i++ {
		if next, done := b.Advance(time.Duration(i) * time.Second); done {
			fired++
			got = next
		}
	}
	if fired != 1 {
		t.Fatalf("next state fired %d times, want 1", fired)
	}
	if got != "play" {
		t.Errorf("next = %q, want play", got)
	}
	if b.Visible() {
		t.Error("box should hide once the queue is empty")
	}
}

func TestShowEmptyStaysHidden(t *testing.T) {
	b := newBox()
	b.Show(Sequence{Next: "play"}, 0)
	if b.Visible() {
		t.Error("empty sequence should not show the box")
	}
	if _, done := b.Advance(0); done {
		t.Error("advancing a hidden box should do nothing")
	}
}

func TestRevealedGrowsWithTime(t *testing.T) {
	b := newBox()
	b.Show(Sequence{Pages: [][]string{{"A", "B", "C", "D"}}}, time.Second)

	tests := []struct {
		now  time.Duration
		want int
	}{
		{time.Second, 1},
		{time.Second + 59*time.Millisecond, 1},
		{time.Second + 60*time.Millisecond, 2},
		{time.Second + 150*time.Millisecond, 3},
		{5 * time.Second, 4},
	}
	for _, tt := range tests {
		if got := b.Revealed(tt.now); got != tt.want {
			t.Errorf("Revealed(%v) = %d, want %d", tt.now, got, tt.want)
		}
	}
}

func TestAdvanceRestartsReveal(t *testing.T) {
	b := newBox()
	b.Show(Sequence{Pages: [][]string{{"A"}, {"B", "C"}}}, 0)
	b.Advance(time.Second)
	if got := b.Revealed(time.Second); got != 1 {
		t.Errorf("Revealed after advance = %d, want 1", got)
	}
	if p := b.Page(); len(p) != 2 || p[0] != "B" {
		t.Errorf("Page() = %v", p)
	}
}

func TestDrawCentersText(t *testing.T) {
	r := rendertest.NewRenderer()
	dst := r.NewImage(200, 100).(*rendertest.Image)
	c := render.NewCanvas(r, dst)

	b := NewBox(r, Style{TextScale: 1, Height: 44, Fill: color.Black, Border: color.White, Text: color.White})
	b.Show(Sequence{Pages: [][]string{{"HELLO", "THERE"}}}, 0)
	b.Draw(c, 0)

	if dst.Count("text") != 2 {
		t.Fatalf("expected both words drawn, ops: %+v", dst.Ops)
	}
	// Box spans y 52..96; one 16px line centered then nudged up.
	for _, op := range dst.Ops {
		if op.Kind == "text" && op.Y != 52+14-centerNudge {
			t.Errorf("text y = %v, want %v", op.Y, 52+14-centerNudge)
		}
	}
}
