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

const speakerTurn = 400 * time.Millisecond

// PlayerColors is how the player is painted on every level.
func PlayerColors(cfg *config.Config) entity.Colors {
	return entity.Colors{
		Body: config.MustColor(cfg.Player.Color),
		Eye:  cfg.Color("eye", color.Black),
		Dust: cfg.Color("dust", color.White),
	}
}

// Convo is a short scene of the player and a buddy chatting. It returns to
// the world on its own.
type Convo struct {
	*Base

	duration  time.Duration
	startedAt time.Duration
	done      bool

	tun    entity.Tunables
	colors entity.Colors
	player *entity.Character
	buddy  *entity.Character
}

// NewConvo builds the conversation level.
func NewConvo(cfg *config.Config, r render.Renderer, log zerolog.Logger) (*Convo, error) {
	base, err := NewBase(ConvoName, "convo", cfg, r, log)
	if err != nil {
		return nil, err
	}
	return &Convo{
		Base:     base,
		duration: cfg.Convo.Duration,
		tun:      entity.TunablesFrom(cfg),
		colors:   PlayerColors(cfg),
	}, nil
}

// LevelWillStart seats the player across from the buddy being talked to.
func (c *Convo) LevelWillStart(s Session, now time.Duration) {
	c.Clear()
	ts := c.cfg.TileSize
	mid := c.Grid.Height / 2

	c.player = entity.NewCharacter(world.Cell{X: 1, Y: mid}, ts, c.tun, c.colors)
	c.player.Look(world.Cell{X: 1})

	buddyColors := c.colors
	if b := s.Encounter().Buddy; b != nil {
		buddyColors = b.Colors
	}
	c.buddy = entity.NewCharacter(world.Cell{X: c.Grid.Width - 2, Y: mid}, ts, c.tun, buddyColors)
	c.buddy.Look(world.Cell{X: -1})

	for _, ch := range []*entity.Character{c.player, c.buddy} {
		c.Add(LayerCharacters, ch)
		c.Updatables = append(c.Updatables, ch)
	}
	c.Add(LayerCharacters, &speech{c: c})
}

// ConfigureVisuals centers the small stage.
func (c *Convo) ConfigureVisuals(s Session) {
	c.Base.ConfigureVisuals(s)
	w, h := c.Grid.PixelSize()
	c.Follow(world.Point{X: w / 2, Y: h / 2})
}

// LevelStarted talks when the player had the energy, otherwise listens.
func (c *Convo) LevelStarted(s Session, now time.Duration) {
	c.startedAt = now
	c.done = false
	if s.Encounter().Talked {
		c.SetState(StateTalking)
	} else {
		c.SetState(StateListening)
	}
}

// Update returns to the world once the conversation has run its course.
func (c *Convo) Update(s Session, now time.Duration) {
	c.Base.Update(s, now)
	if !c.done && now-c.startedAt >= c.duration {
		c.done = true
		s.SwitchTo(WorldName, now)
	}
}

// Speaker returns who is talking at now.
func (c *Convo) Speaker(now time.Duration) *entity.Character {
	if c.State() == StateListening || ((now-c.startedAt)/speakerTurn)%2 == 0 {
		return c.buddy
	}
	return c.player
}

// speech draws dots over whoever is talking.
type speech struct {
	c *Convo
}

func (sp *speech) Draw(cv *render.Canvas, now time.Duration) {
	who := sp.c.Speaker(now)
	if who == nil {
		return
	}
	p := who.Position()
	clr := sp.c.cfg.Color("bubble", color.White)
	dots := int((now-sp.c.startedAt)/(speakerTurn/4))%3 + 1
	for i := 0; i < dots; i++ {
		cv.FillRect(p.X+3+float64(i)*4, p.Y-5, 2, 2, clr)
	}
}
