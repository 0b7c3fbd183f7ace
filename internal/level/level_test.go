package level

import (
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"chosenoffset.com/buddies/internal/camera"
	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/dialogue"
	"chosenoffset.com/buddies/internal/entity"
	"chosenoffset.com/buddies/internal/input"
	"chosenoffset.com/buddies/internal/render"
	"chosenoffset.com/buddies/internal/render/rendertest"
	"chosenoffset.com/buddies/internal/world"
)

const tick = 16 * time.Millisecond

type fakeSession struct {
	cam      *camera.Camera
	rng      *rand.Rand
	enc      Encounter
	switches []string
}

func newSession(cfg *config.Config) *fakeSession {
	return &fakeSession{
		cam: camera.New(cfg.Screen.Width, cfg.Screen.Height, cfg.Screen.Scale, camera.ShakeConfig{
			Multiple: cfg.Camera.ShakeMultiple,
			Decay:    cfg.Camera.ShakeDecay,
			Epsilon:  cfg.Camera.ShakeEpsilon,
		}),
		rng: rand.New(rand.NewSource(1)),
	}
}

func (f *fakeSession) Camera() *camera.Camera { return f.cam }
func (f *fakeSession) Rand() Rand             { return f.rng }
func (f *fakeSession) Encounter() *Encounter  { return &f.enc }
func (f *fakeSession) SwitchTo(name string, now time.Duration) {
	f.switches = append(f.switches, name)
}

func start(l Level, s Session, now time.Duration) {
	l.LevelWillStart(s, now)
	l.ConfigureVisuals(s)
	l.LevelStarted(s, now)
}

// runUntilSwitch ticks l until it asks to switch levels or limit passes.
func runUntilSwitch(l Level, s *fakeSession, from, limit time.Duration) time.Duration {
	n := len(s.switches)
	now := from
	for now < from+limit && len(s.switches) == n {
		now += tick
		l.Update(s, now)
	}
	return now
}

type fixture struct {
	cfg  *config.Config
	w    *World
	sess *fakeSession
	now  time.Duration
}

// playing returns a world that has shown its intro and is in play.
func playing(t *testing.T) *fixture {
	t.Helper()
	cfg := config.Default()
	spawn := world.Cell{X: cfg.Player.Spawn.X, Y: cfg.Player.Spawn.Y}
	player := entity.NewPlayer(spawn, cfg.TileSize, entity.TunablesFrom(cfg), PlayerColors(cfg), cfg.Energy.Max)
	w, err := NewWorld(cfg, rendertest.NewRenderer(), player, zerolog.Nop())
	if err != nil {
		t.Fatalf("NewWorld: %v", err)
	}
	f := &fixture{cfg: cfg, w: w, sess: newSession(cfg), now: time.Second}
	start(w, f.sess, f.now)
	for w.Box.Visible() {
		f.now += tick
		w.HandleInput(f.sess, input.Action, f.now)
	}
	if w.State() != StatePlay {
		t.Fatalf("state after intro = %q", w.State())
	}
	return f
}

func (f *fixture) buddy(name string) *entity.Buddy {
	for _, b := range f.w.Buddies {
		if b.Name == name {
			return b
		}
	}
	return nil
}

// bump walks the player from cell in dir and ticks until the walk is over.
func (f *fixture) bump(from, dir world.Cell) {
	f.w.Player.Teleport(from)
	f.now += tick
	f.w.HandleInput(f.sess, intentFor(dir), f.now)
	f.now = runUntilSwitch(f.w, f.sess, f.now, time.Second)
}

// returnFrom restarts the world as the session does after another level.
func (f *fixture) returnFrom() {
	f.now += time.Second
	start(f.w, f.sess, f.now)
}

func (f *fixture) dismiss() {
	for f.w.Box.Visible() {
		f.now += tick
		f.w.HandleInput(f.sess, input.Action, f.now)
	}
}

func intentFor(dir world.Cell) input.Intent {
	switch dir {
	case world.Cell{X: 1}:
		return input.Right
	case world.Cell{X: -1}:
		return input.Left
	case world.Cell{Y: -1}:
		return input.Up
	}
	return input.Down
}

func TestIntroLeadsToPlay(t *testing.T) {
	cfg := config.Default()
	player := entity.NewPlayer(world.Cell{X: 2, Y: 2}, cfg.TileSize, entity.TunablesFrom(cfg), PlayerColors(cfg), 3)
	w, err := NewWorld(cfg, rendertest.NewRenderer(), player, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	start(w, sess, 0)

	if w.State() != StateIntro || w.Box.Remaining() != len(cfg.Dialogue.Intro) {
		t.Fatalf("state %q with %d pages", w.State(), w.Box.Remaining())
	}
	if w.Roaming() {
		t.Error("player should not roam during the intro")
	}
	for i := range cfg.Dialogue.Intro {
		if w.State() != StateIntro {
			t.Fatalf("left intro after %d pages", i)
		}
		w.HandleInput(sess, input.Down, time.Duration(i+1)*time.Second)
	}
	if w.State() != StatePlay || w.Box.Visible() {
		t.Errorf("state %q, box visible %v", w.State(), w.Box.Visible())
	}
	if w.Player.TileIndex() != (world.Cell{X: 2, Y: 2}) {
		t.Error("advancing dialogue must not move the player")
	}
}

func TestWorldTouchIntent(t *testing.T) {
	cfg := config.Default()
	player := entity.NewPlayer(world.Cell{X: 2, Y: 2}, cfg.TileSize, entity.TunablesFrom(cfg), PlayerColors(cfg), 3)
	w, err := NewWorld(cfg, rendertest.NewRenderer(), player, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	start(w, sess, 0)

	c := player.Center()
	right := world.Point{X: c.X + 20, Y: c.Y + 3}
	if got := w.TouchIntent(right); got != input.Action {
		t.Errorf("during the intro TouchIntent = %v, want action", got)
	}

	f := playing(t)
	c = f.w.Player.Center()
	tests := []struct {
		p    world.Point
		want input.Intent
	}{
		{world.Point{X: c.X + 20, Y: c.Y + 3}, input.Right},
		{world.Point{X: c.X - 2, Y: c.Y - 30}, input.Up},
		{c, input.None},
	}
	for _, tt := range tests {
		if got := f.w.TouchIntent(tt.p); got != tt.want {
			t.Errorf("TouchIntent(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if f.w.Player.Walking() {
		t.Error("mapping a touch must not walk the player")
	}
}

func TestWalkingIntoBuddyStartsConvo(t *testing.T) {
	f := playing(t)
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})

	if len(f.sess.switches) != 1 || f.sess.switches[0] != ConvoName {
		t.Fatalf("switches = %v, want [convo]", f.sess.switches)
	}
	enc := f.sess.enc
	if enc.Buddy != f.buddy("pip") || !enc.Talked {
		t.Errorf("encounter = %+v", enc)
	}
	if enc.Spawn != (world.Cell{X: 6, Y: 2}) {
		t.Errorf("spawn = %v", enc.Spawn)
	}
	if f.w.Player.Energy != f.cfg.Energy.Max-f.cfg.Energy.ConvoCost {
		t.Errorf("energy = %v", f.w.Player.Energy)
	}
	if f.w.Player.TileIndex() != enc.Spawn {
		t.Error("buddy tile must stay a soft obstacle")
	}
}

func TestPostConvoTeachesMissingTopic(t *testing.T) {
	f := playing(t)
	f.w.Player.Learn("birds")
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})
	f.returnFrom()

	if f.w.State() != StatePostConvo {
		t.Fatalf("state = %q, want post-convo", f.w.State())
	}
	topics := f.w.Player.Topics()
	if len(topics) != 2 || topics[1] != "clouds" {
		t.Errorf("topics = %v, want [birds clouds]", topics)
	}
	if page := f.w.Box.Page(); len(page) != 4 || page[3] != "CLOUDS" {
		t.Errorf("page = %v", page)
	}
	if !f.sess.cam.Shaking() {
		t.Error("learning a topic should shake the camera")
	}
	if f.w.Player.TileIndex() != (world.Cell{X: 6, Y: 2}) {
		t.Errorf("player returned to %v", f.w.Player.TileIndex())
	}
	if *f.sess.Encounter() != (Encounter{}) {
		t.Error("encounter should be consumed")
	}

	f.dismiss()
	if f.w.State() != StatePlay {
		t.Errorf("state after pages = %q", f.w.State())
	}
}

func TestPostConvoGoodTimeWhenNothingNew(t *testing.T) {
	f := playing(t)
	f.w.Player.Learn("stars")
	f.bump(world.Cell{X: 6, Y: 9}, world.Cell{X: 1})
	if len(f.sess.switches) != 1 {
		t.Fatalf("no conversation with dot: %v", f.sess.switches)
	}
	f.returnFrom()

	if len(f.w.Player.Topics()) != 1 {
		t.Errorf("topics = %v", f.w.Player.Topics())
	}
	want := config.Pages(f.cfg.Dialogue.GoodTime...)[0]
	if page := f.w.Box.Page(); len(page) != len(want) || page[0] != want[0] {
		t.Errorf("page = %v, want %v", page, want)
	}
}

func TestTiredPlayerListens(t *testing.T) {
	f := playing(t)
	f.w.Player.Energy = 0
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})
	if f.sess.enc.Talked {
		t.Fatal("a player without energy cannot talk")
	}
	f.returnFrom()

	if f.w.State() != StatePostListen {
		t.Errorf("state = %q, want post-listen", f.w.State())
	}
	if len(f.w.Player.Topics()) != 0 {
		t.Error("listening must not teach")
	}
	f.dismiss()
	if f.w.State() != StatePlay {
		t.Errorf("state after pages = %q", f.w.State())
	}
}

func TestBedRestsPlayer(t *testing.T) {
	f := playing(t)
	f.w.Player.Energy = 0
	f.bump(world.Cell{X: 14, Y: 10}, world.Cell{X: 1})
	if len(f.sess.switches) != 1 || f.sess.switches[0] != SleepName {
		t.Fatalf("switches = %v, want [sleep]", f.sess.switches)
	}
	f.sess.enc.Slept = true
	f.returnFrom()

	if f.w.State() != StateSleeping {
		t.Errorf("state = %q, want sleeping", f.w.State())
	}
	if f.w.Player.Energy != f.cfg.Energy.Max {
		t.Errorf("energy = %v", f.w.Player.Energy)
	}
	f.dismiss()
	if f.w.State() != StatePlay {
		t.Errorf("state after pages = %q", f.w.State())
	}
}

func TestLastTopicWins(t *testing.T) {
	f := playing(t)
	for _, topic := range []string{"birds", "rivers", "stars"} {
		f.w.Player.Learn(topic)
	}
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})
	f.returnFrom()
	if !f.w.KnowsEverything() {
		t.Fatalf("topics = %v", f.w.Player.Topics())
	}

	f.now += tick
	f.w.HandleInput(f.sess, input.Action, f.now)
	if f.w.State() != StateWin {
		t.Fatalf("state = %q, want win", f.w.State())
	}
	if f.w.Box.Remaining() != len(f.cfg.Dialogue.Win) {
		t.Errorf("win pages = %d", f.w.Box.Remaining())
	}
	f.dismiss()
	if f.w.State() != StateGameOver {
		t.Errorf("state = %q, want game-over", f.w.State())
	}

	f.w.HandleInput(f.sess, input.Left, f.now+time.Second)
	if f.w.Player.Walking() {
		t.Error("the player cannot walk after the game is over")
	}
}

func TestInteractionCooldown(t *testing.T) {
	f := playing(t)
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})
	first := f.now

	// Bump again straight away, without going through the convo.
	f.w.Player.Teleport(world.Cell{X: 6, Y: 2})
	f.w.HandleInput(f.sess, input.Right, f.now+tick)
	runUntilSwitch(f.w, f.sess, f.now+tick, 500*time.Millisecond)
	if len(f.sess.switches) != 1 {
		t.Fatalf("interaction within the cooldown: %v", f.sess.switches)
	}

	f.now = first + 2*time.Second
	f.bump(world.Cell{X: 6, Y: 2}, world.Cell{X: 1})
	if len(f.sess.switches) != 2 {
		t.Errorf("interaction after the cooldown missing: %v", f.sess.switches)
	}
}

func TestVisibleDialogueBlocksInteraction(t *testing.T) {
	f := playing(t)
	f.w.Player.Teleport(world.Cell{X: 6, Y: 2})
	f.w.Player.Step(world.Cell{X: 1}, f.now, f.w.Grid, func(c world.Cell) bool { return f.w.InteractableAt(c) != nil })
	f.w.Box.Show(dialogueOf("HI"), f.now)

	runUntilSwitch(f.w, f.sess, f.now, time.Second)
	if len(f.sess.switches) != 0 {
		t.Errorf("interaction began under a dialogue box: %v", f.sess.switches)
	}
}

func TestWalkingBlockedByWalls(t *testing.T) {
	f := playing(t)
	f.w.Player.Teleport(world.Cell{X: 1, Y: 1})
	f.w.HandleInput(f.sess, input.Up, f.now)
	if f.w.Player.Walking() || f.w.Busy() {
		t.Error("walking into the border wall should be rejected")
	}
	f.w.HandleInput(f.sess, input.Down, f.now)
	if !f.w.Busy() {
		t.Error("world should be busy mid-walk")
	}
}

func TestWorldDrawRestoresCanvas(t *testing.T) {
	f := playing(t)
	r := rendertest.NewRenderer()
	dst := r.NewImage(f.cfg.Screen.Width, f.cfg.Screen.Height).(*rendertest.Image)
	cv := render.NewCanvas(r, dst)
	f.w.Draw(cv, f.now)
	if cv.Depth() != 0 {
		t.Errorf("Depth = %d after Draw", cv.Depth())
	}
	if dst.Count("image") < f.w.Grid.Width*f.w.Grid.Height {
		t.Errorf("expected every tile drawn, got %d images", dst.Count("image"))
	}
}

func TestStartScreenNeedsAction(t *testing.T) {
	cfg := config.Default()
	s, err := NewStartScreen(cfg, rendertest.NewRenderer(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	start(s, sess, 0)
	if s.State() != StateTitle {
		t.Fatalf("state = %q", s.State())
	}

	for _, in := range []input.Intent{input.Up, input.Down, input.Left, input.Right} {
		s.HandleInput(sess, in, time.Second)
	}
	if len(sess.switches) != 0 {
		t.Fatalf("directions started the game: %v", sess.switches)
	}
	if got := s.TouchIntent(world.Point{X: 3, Y: 90}); got != input.Action {
		t.Errorf("TouchIntent = %v, want action", got)
	}
	s.HandleInput(sess, input.Action, time.Second)
	s.HandleInput(sess, input.Action, time.Second)
	if len(sess.switches) != 1 || sess.switches[0] != WorldName {
		t.Errorf("switches = %v, want [world]", sess.switches)
	}
}

func TestConvoReturnsAfterDuration(t *testing.T) {
	cfg := config.Default()
	c, err := NewConvo(cfg, rendertest.NewRenderer(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	sess.enc.Talked = false
	start(c, sess, time.Second)
	if c.State() != StateListening {
		t.Errorf("state = %q, want listening", c.State())
	}
	c.HandleInput(sess, input.Action, time.Second)

	end := runUntilSwitch(c, sess, time.Second, 5*time.Second)
	if len(sess.switches) != 1 || sess.switches[0] != WorldName {
		t.Fatalf("switches = %v", sess.switches)
	}
	if end-time.Second < cfg.Convo.Duration {
		t.Errorf("convo ended early after %v", end-time.Second)
	}
	c.Update(sess, end+tick)
	if len(sess.switches) != 1 {
		t.Error("convo switched twice")
	}
}

func TestConvoAlternatesSpeakers(t *testing.T) {
	cfg := config.Default()
	c, err := NewConvo(cfg, rendertest.NewRenderer(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	sess.enc.Talked = true
	start(c, sess, 0)
	if c.State() != StateTalking {
		t.Fatalf("state = %q", c.State())
	}
	if c.Speaker(0) == c.Speaker(speakerTurn) {
		t.Error("speakers should take turns while talking")
	}
}

func TestSleepWakesInWorld(t *testing.T) {
	cfg := config.Default()
	s, err := NewSleep(cfg, rendertest.NewRenderer(), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	sess := newSession(cfg)
	start(s, sess, 0)
	runUntilSwitch(s, sess, 0, 5*time.Second)
	if len(sess.switches) != 1 || sess.switches[0] != WorldName {
		t.Fatalf("switches = %v", sess.switches)
	}
	if !sess.enc.Slept {
		t.Error("waking up should mark the encounter slept")
	}
}

func dialogueOf(words ...string) dialogue.Sequence {
	return dialogue.Sequence{Pages: [][]string{words}}
}
