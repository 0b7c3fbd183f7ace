package loop

import (
	"testing"
	"time"
)

const step = 16670 * time.Microsecond

func TestFixedStepCount(t *testing.T) {
	ticks := 0
	d := New(step, func(time.Duration) { ticks++ })

	for ms := 0; ms <= 1000; ms += 16 {
		d.Frame(time.Duration(ms) * time.Millisecond)
	}
	// Last frame lands on 992ms.
	want := int(992 * time.Millisecond / step)
	if ticks < want-1 || ticks > want+1 {
		t.Errorf("ticks = %d, want %d±1", ticks, want)
	}
	if uint64(ticks) != d.Ticks() {
		t.Errorf("Ticks() = %d, counted %d", d.Ticks(), ticks)
	}
}

func TestFirstFrameRunsNothing(t *testing.T) {
	ticks := 0
	d := New(step, func(time.Duration) { ticks++ })
	if n := d.Frame(time.Hour); n != 0 || ticks != 0 {
		t.Errorf("first frame ran %d ticks", n)
	}
}

func TestStallClamp(t *testing.T) {
	ticks := 0
	d := New(step, func(time.Duration) { ticks++ })
	d.Frame(0)
	n := d.Frame(50 * time.Second)
	if n > DefaultMaxCatchUp {
		t.Errorf("stall ran %d ticks, max %d", n, DefaultMaxCatchUp)
	}
	if n != DefaultMaxCatchUp {
		t.Errorf("stall ran %d ticks, want exactly %d", n, DefaultMaxCatchUp)
	}
}

func TestNegativeDeltaIgnored(t *testing.T) {
	ticks := 0
	d := New(step, func(time.Duration) { ticks++ })
	d.Frame(time.Second)
	d.Frame(500 * time.Millisecond)
	if ticks != 0 || d.Lag() != 0 {
		t.Errorf("clock going backwards ran %d ticks, lag %v", ticks, d.Lag())
	}
}

func TestLogicReceivesCurrentTimestamp(t *testing.T) {
	var seen []time.Duration
	d := New(10*time.Millisecond, func(now time.Duration) { seen = append(seen, now) })
	d.Frame(0)
	d.Frame(35 * time.Millisecond)
	if len(seen) != 3 {
		t.Fatalf("ran %d ticks, want 3", len(seen))
	}
	for _, now := range seen {
		if now != 35*time.Millisecond {
			t.Errorf("tick saw %v, want frame timestamp 35ms", now)
		}
	}
	if d.Lag() != 5*time.Millisecond {
		t.Errorf("Lag() = %v, want 5ms", d.Lag())
	}
}

func TestReset(t *testing.T) {
	ticks := 0
	d := New(10*time.Millisecond, func(time.Duration) { ticks++ })
	d.Frame(0)
	d.Frame(5 * time.Millisecond)
	d.Reset()
	d.Frame(time.Minute)
	if ticks != 0 || d.Lag() != 0 {
		t.Errorf("after Reset: ticks=%d lag=%v", ticks, d.Lag())
	}
}
