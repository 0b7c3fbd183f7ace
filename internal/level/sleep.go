package level

import (
	"image/color"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

const snoreRise = 700 * time.Millisecond

// Sleep shows the player asleep for a while, then wakes up in the world.
type Sleep struct {
	*Base

	duration  time.Duration
	startedAt time.Duration
	done      bool

	sleeper *entity.Character
	bed     *entity.Bed
}

// NewSleep builds the sleep level.
func NewSleep(cfg *config.Config, r render.Renderer, log zerolog.Logger) (*Sleep, error) {
	base, err := NewBase(SleepName, "sleep", cfg, r, log)
	if err != nil {
		return nil, err
	}
	mid := world.Cell{X: base.Grid.Width / 2, Y: base.Grid.Height / 2}
	s := &Sleep{
		Base:     base,
		duration: cfg.Sleep.Duration,
		bed: entity.NewBed(mid, cfg.TileSize,
			cfg.Color("bed", color.NRGBA{R: 255, G: 0, B: 77, A: 255}), cfg.Color("bed_trim", color.White)),
		sleeper: entity.NewCharacter(mid, cfg.TileSize, entity.TunablesFrom(cfg), PlayerColors(cfg)),
	}
	s.sleeper.Look(world.Cell{X: -1})
	s.Add(LayerItems, s.bed)
	s.Add(LayerCharacters, s.sleeper)
	s.Add(LayerCharacters, &snore{s: s})
	s.Updatables = append(s.Updatables, s.sleeper)
	return s, nil
}

// ConfigureVisuals centers the bed.
func (s *Sleep) ConfigureVisuals(sess Session) {
	s.Base.ConfigureVisuals(sess)
	w, h := s.Grid.PixelSize()
	s.Follow(world.Point{X: w / 2, Y: h / 2})
}

// LevelStarted falls asleep.
func (s *Sleep) LevelStarted(sess Session, now time.Duration) {
	s.startedAt = now
	s.done = false
	s.SetState(StateSleeping)
}

// Update wakes the player once the night is over.
func (s *Sleep) Update(sess Session, now time.Duration) {
	s.Base.Update(sess, now)
	if !s.done && now-s.startedAt >= s.duration {
		s.done = true
		sess.Encounter().Slept = true
		sess.SwitchTo(WorldName, now)
	}
}

// snore draws Zs drifting up from the sleeper.
type snore struct {
	s *Sleep
}

func (z *snore) Draw(cv *render.Canvas, now time.Duration) {
	elapsed := now - z.s.startedAt
	p := z.s.sleeper.Center()
	clr := z.s.cfg.Color("bubble", color.White)
	for i := 0; i < 2; i++ {
		t := float64((elapsed+time.Duration(i)*snoreRise/2)%snoreRise) / float64(snoreRise)
		cv.Save()
		cv.SetAlpha(cv.Alpha() * (1 - t))
		cv.DrawText("Z", p.X+4+t*4, p.Y-8-t*10, clr, 0.5)
		cv.Restore()
	}
}
