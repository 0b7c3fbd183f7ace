package level

import (
	"image/color"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/world"
)

const promptBlink = 500 * time.Millisecond

// StartScreen shows the title until the player presses the action key or
// touches the screen.
type StartScreen struct {
	*Base

	title   string
	mascots []*entity.Character
	scale   float64
	leaving bool
}

// NewStartScreen builds the title screen. Every buddy idles under the title.
func NewStartScreen(cfg *config.Config, r render.Renderer, log zerolog.Logger) (*StartScreen, error) {
	base, err := NewBase(StartName, "", cfg, r, log)
	if err != nil {
		return nil, err
	}
	s := &StartScreen{Base: base, title: strings.ToUpper(cfg.Title), scale: cfg.Screen.Scale}
	tun := entity.TunablesFrom(cfg)
	for i, bc := range cfg.Buddies {
		m := entity.NewCharacter(world.Cell{X: i}, cfg.TileSize, tun, entity.Colors{
			Body: config.MustColor(bc.Color),
			Eye:  cfg.Color("eye", color.Black),
			Dust: cfg.Color("dust", color.White),
		})
		s.mascots = append(s.mascots, m)
		s.Updatables = append(s.Updatables, m)
	}
	return s, nil
}

// LevelStarted shows the title.
func (s *StartScreen) LevelStarted(sess Session, now time.Duration) {
	s.leaving = false
	s.SetState(StateTitle)
}

// HandleInput starts the game on the action key. Directions do nothing.
func (s *StartScreen) HandleInput(sess Session, intent input.Intent, now time.Duration) {
	if intent == input.Action {
		s.begin(sess, now)
	}
}

// TouchIntent makes any touch start the game.
func (s *StartScreen) TouchIntent(p world.Point) input.Intent {
	return input.Action
}

func (s *StartScreen) begin(sess Session, now time.Duration) {
	if s.leaving {
		return
	}
	s.leaving = true
	s.log.Info().Msg("game started")
	sess.SwitchTo(WorldName, now)
}

// Draw paints the title, the idling buddies and a blinking prompt, all in
// screen space.
func (s *StartScreen) Draw(c *render.Canvas, now time.Duration) {
	c.Clear(s.Background)
	titleColor := s.cfg.Color("title", color.White)
	drawCentered(c, s.title, 4*s.scale, titleColor, -40*s.scale)

	sw, sh := c.Size()
	ts := float64(s.cfg.TileSize)
	row := ts * float64(len(s.mascots))
	c.Save()
	c.Translate(float64(sw)/2-row*s.scale/2, float64(sh)/2-ts*s.scale/2)
	c.Scale(s.scale, s.scale)
	for _, m := range s.mascots {
		m.Draw(c, now)
	}
	c.Restore()

	if (now/promptBlink)%2 == 0 {
		drawCentered(c, "PRESS SPACE", s.scale, s.cfg.Color("text", color.White), 30*s.scale)
	}
}

// drawCentered draws str centered on the canvas, shifted down by dy.
func drawCentered(c *render.Canvas, str string, scale float64, clr color.Color, dy float64) {
	sw, sh := c.Size()
	w, h := c.Renderer().MeasureText(str, scale)
	c.DrawText(str, float64(sw-w)/2, float64(sh-h)/2+dy, clr, scale)
}
