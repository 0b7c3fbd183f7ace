package game

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/camera"
	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/level"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/transition"
	"chosenoffset.com/buddies/internal/world"
)

// ErrUnknownLevel is returned when switching to a level that was never built.
var ErrUnknownLevel = errors.New("unknown level")

// Session owns every piece of mutable game state: the levels, the camera,
// the transition, buffered input and the random source. All of it is
// touched only from Tick and Draw.
type Session struct {
	Config *config.Config

	renderer   render.Renderer
	cam        *camera.Camera
	rng        *rand.Rand
	log        zerolog.Logger
	player     *entity.Player
	levels     map[string]level.Level
	current    level.Level
	transition *transition.Controller
	buffer     *input.Buffer
	encounter  level.Encounter
}

// NewSession builds every level and shows the start screen.
func NewSession(cfg *config.Config, r render.Renderer, rng *rand.Rand, log zerolog.Logger) (*Session, error) {
	s := &Session{
		Config:   cfg,
		renderer: r,
		rng:      rng,
		log:      log,
		cam: camera.New(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.Scale, camera.ShakeConfig{
			Multiple: cfg.Camera.ShakeMultiple,
			Decay:    cfg.Camera.ShakeDecay,
			Epsilon:  cfg.Camera.ShakeEpsilon,
		}),
		transition: transition.New(r, cfg.Screen.Width, cfg.Screen.Height, cfg.Transition.Duration, cfg.Transition.MaxScale),
		buffer:     input.NewBuffer(cfg.Walk.InputWindow),
		levels:     make(map[string]level.Level),
	}

	spawn := world.Cell{X: cfg.Player.Spawn.X, Y: cfg.Player.Spawn.Y}
	s.player = entity.NewPlayer(spawn, cfg.TileSize, entity.TunablesFrom(cfg), level.PlayerColors(cfg), cfg.Energy.Max)

	start, err := level.NewStartScreen(cfg, r, log)
	if err != nil {
		return nil, err
	}
	w, err := level.NewWorld(cfg, r, s.player, log)
	if err != nil {
		return nil, err
	}
	convo, err := level.NewConvo(cfg, r, log)
	if err != nil {
		return nil, err
	}
	sleep, err := level.NewSleep(cfg, r, log)
	if err != nil {
		return nil, err
	}
	for _, l := range []level.Level{start, w, convo, sleep} {
		s.levels[l.Name()] = l
	}

	s.enter(start, 0)
	return s, nil
}

// Camera returns the shared camera.
func (s *Session) Camera() *camera.Camera { return s.cam }

// Rand returns the session's random source.
func (s *Session) Rand() level.Rand { return s.rng }

// Encounter returns the state carried between levels.
func (s *Session) Encounter() *level.Encounter { return &s.encounter }

// Player returns the player.
func (s *Session) Player() *entity.Player { return s.player }

// Level returns the active level.
func (s *Session) Level() level.Level { return s.current }

// Transition returns the transition controller.
func (s *Session) Transition() *transition.Controller { return s.transition }

// SwitchTo snapshots the active level, then swaps in the named one.
func (s *Session) SwitchTo(name string, now time.Duration) {
	if err := s.switchTo(name, now); err != nil {
		s.log.Error().Err(err).Msg("level switch failed")
	}
}

func (s *Session) switchTo(name string, now time.Duration) error {
	next, ok := s.levels[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownLevel, name)
	}
	prev := s.current
	s.transition.Begin(now, func(c *render.Canvas) { prev.Draw(c, now) })
	s.log.Info().Str("from", prev.Name()).Str("to", name).Dur("at", now).Msg("switching level")
	s.enter(next, now)
	return nil
}

func (s *Session) enter(l level.Level, now time.Duration) {
	s.current = l
	s.buffer.Clear()
	l.LevelWillStart(s, now)
	l.ConfigureVisuals(s)
	l.LevelStarted(s, now)
}

// Push buffers an intent.
func (s *Session) Push(intent input.Intent, now time.Duration) {
	s.buffer.Push(intent, now)
}

// Touch converts a screen-space touch into the active level's intent and
// buffers it like a key press.
func (s *Session) Touch(px, py int, now time.Duration) {
	if intent := s.current.TouchIntent(s.cam.ScreenToWorld(px, py)); intent != input.None {
		s.Push(intent, now)
	}
}

// Tick runs one fixed step of game logic. The level updates before the
// buffer is read, so an intent held during a walk starts the next walk on
// the tick the first one ends.
func (s *Session) Tick(now time.Duration) {
	s.transition.Update(now)
	s.current.Update(s, now)
	busy := s.transition.Active() || s.current.Busy()
	if intent := s.buffer.Take(now, busy); intent != input.None {
		s.current.HandleInput(s, intent, now)
	}
	s.cam.UpdateShake(now)
}

// Draw renders the active level, crossfading while a transition runs.
func (s *Session) Draw(dst render.Image, now time.Duration) {
	s.transition.Draw(dst, func(c *render.Canvas) { s.current.Draw(c, now) })
}

// Close releases offscreen images.
func (s *Session) Close() {
	s.transition.Close()
}
