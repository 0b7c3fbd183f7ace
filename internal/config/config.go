// Package config provides the game's tunables, palette, maps and dialogue
// text. Defaults are embedded; a user file can override any subset.
package config

import (
	_ "embed"
	"errors"
	"fmt"
	"image/color"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultYAML []byte

// ErrNoSpawn is returned when the player spawn is not on a walkable tile.
var ErrNoSpawn = errors.New("player spawn is not walkable")

// Config holds every data-driven setting of a game.
type Config struct {
	Title      string           `yaml:"title"`
	Screen     ScreenConfig     `yaml:"screen"`
	Timing     TimingConfig     `yaml:"timing"`
	Walk       WalkConfig       `yaml:"walk"`
	Blink      IdleAnimConfig   `yaml:"blink"`
	LookAway   IdleAnimConfig   `yaml:"look_away"`
	Camera     CameraConfig     `yaml:"camera"`
	Transition TransitionConfig `yaml:"transition"`
	Dialogue   DialogueConfig   `yaml:"dialogue"`
	Energy     EnergyConfig     `yaml:"energy"`
	Interact   InteractConfig   `yaml:"interact"`
	Convo      PhaseConfig      `yaml:"convo"`
	Sleep      PhaseConfig      `yaml:"sleep"`
	Player     PlayerConfig     `yaml:"player"`

	Palette  map[string]string     `yaml:"palette"`
	TileSize int                   `yaml:"tile_size"`
	Tiles    map[string]TileConfig `yaml:"tiles"`
	Maps     map[string]MapConfig  `yaml:"maps"`
	Buddies  []BuddyConfig         `yaml:"buddies"`
	Beds     []Cell                `yaml:"beds"`
}

// ScreenConfig is the logical screen size and the world-to-screen scale.
type ScreenConfig struct {
	Width  int     `yaml:"width"`
	Height int     `yaml:"height"`
	Scale  float64 `yaml:"scale"`
}

// TimingConfig drives the fixed-step loop.
type TimingConfig struct {
	Step            time.Duration `yaml:"step"`
	MaxCatchUpSteps int           `yaml:"max_catch_up_steps"`
}

// WalkConfig controls tile-to-tile movement and its effects.
type WalkConfig struct {
	Duration     time.Duration `yaml:"duration"`
	InputWindow  time.Duration `yaml:"input_window"`
	DustInterval time.Duration `yaml:"dust_interval"`
	DustLife     time.Duration `yaml:"dust_life"`
	DustJitter   float64       `yaml:"dust_jitter"`
	Grow         float64       `yaml:"grow"`
}

// IdleAnimConfig gates a randomly triggered idle animation.
type IdleAnimConfig struct {
	Duration time.Duration `yaml:"duration"`
	MinDelta time.Duration `yaml:"min_delta"`
	Chance   float64       `yaml:"chance"`
}

// CameraConfig controls screen shake.
type CameraConfig struct {
	ShakeMultiple float64 `yaml:"shake_multiple"`
	ShakeDecay    float64 `yaml:"shake_decay"`
	ShakeEpsilon  float64 `yaml:"shake_epsilon"`
}

// TransitionConfig controls the crossfade between levels.
type TransitionConfig struct {
	Duration time.Duration `yaml:"duration"`
	MaxScale float64       `yaml:"max_scale"`
}

// DialogueConfig holds the text pages and how they are revealed. A page is a
// sentence; it is split into uppercase words when shown.
type DialogueConfig struct {
	WordInterval time.Duration `yaml:"word_interval"`
	TextScale    float64       `yaml:"text_scale"`
	BoxHeight    float64       `yaml:"box_height"`
	Intro        []string      `yaml:"intro"`
	GoodTime     []string      `yaml:"good_time"`
	TooTired     []string      `yaml:"too_tired"`
	Rested       []string      `yaml:"rested"`
	Learned      string        `yaml:"learned"`
	Win          []string      `yaml:"win"`
	GameOver     string        `yaml:"game_over"`
}

// EnergyConfig is the player's conversation budget.
type EnergyConfig struct {
	Max       float64 `yaml:"max"`
	ConvoCost float64 `yaml:"convo_cost"`
}

// InteractConfig gates interactions.
type InteractConfig struct {
	Cooldown time.Duration `yaml:"cooldown"`
}

// PhaseConfig is a level that ends on its own after a fixed time.
type PhaseConfig struct {
	Duration time.Duration `yaml:"duration"`
}

// PlayerConfig describes the player at boot.
type PlayerConfig struct {
	Color string `yaml:"color"`
	Spawn Cell   `yaml:"spawn"`
}

// Cell is a tile coordinate.
type Cell struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// TileConfig describes one tile type, keyed by its map character.
type TileConfig struct {
	Name     string `yaml:"name"`
	Walkable bool   `yaml:"walkable"`
	Color    string `yaml:"color"`
	Border   string `yaml:"border,omitempty"`
}

// MapConfig is a grid of tile characters, one string per row.
type MapConfig struct {
	Background string   `yaml:"background"`
	Rows       []string `yaml:"rows"`
}

// BuddyConfig places an NPC on the world map.
type BuddyConfig struct {
	Name   string   `yaml:"name"`
	Color  string   `yaml:"color"`
	At     Cell     `yaml:"at"`
	Topics []string `yaml:"topics"`
}

// Default returns the embedded configuration.
func Default() *Config {
	cfg, err := Parse(defaultYAML, nil)
	if err != nil {
		// The embedded file is covered by tests.
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return cfg
}

// Parse decodes YAML on top of base. A nil base starts from zero values.
func Parse(data []byte, base *Config) (*Config, error) {
	cfg := &Config{}
	if base != nil {
		*cfg = *base
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

// Load reads a YAML file over the defaults. An empty path yields the
// defaults; a named file must exist.
func Load(path string) (*Config, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	cfg, err := Parse(data, Default())
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks timings and palette entries. Map contents are validated
// when the grids are built.
func (c *Config) Validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 || c.Screen.Scale <= 0 {
		return fmt.Errorf("invalid screen %dx%d scale %v", c.Screen.Width, c.Screen.Height, c.Screen.Scale)
	}
	if c.Timing.Step <= 0 {
		return fmt.Errorf("timing.step must be positive, got %v", c.Timing.Step)
	}
	if c.Timing.MaxCatchUpSteps < 1 {
		return fmt.Errorf("timing.max_catch_up_steps must be at least 1, got %d", c.Timing.MaxCatchUpSteps)
	}
	if c.Walk.Duration <= 0 {
		return fmt.Errorf("walk.duration must be positive, got %v", c.Walk.Duration)
	}
	if c.Transition.Duration <= 0 || c.Transition.MaxScale < 1 {
		return fmt.Errorf("invalid transition duration %v scale %v", c.Transition.Duration, c.Transition.MaxScale)
	}
	if c.Camera.ShakeDecay <= 0 || c.Camera.ShakeDecay >= 1 {
		return fmt.Errorf("camera.shake_decay must be in (0, 1), got %v", c.Camera.ShakeDecay)
	}
	if c.TileSize <= 0 {
		return fmt.Errorf("tile_size must be positive, got %d", c.TileSize)
	}
	for _, name := range []string{"world", "convo", "sleep"} {
		if _, ok := c.Maps[name]; !ok {
			return fmt.Errorf("missing map %q", name)
		}
	}
	for key, tile := range c.Tiles {
		if len([]rune(key)) != 1 {
			return fmt.Errorf("tile key %q must be a single character", key)
		}
		if _, err := ParseColor(tile.Color); err != nil {
			return fmt.Errorf("tile %s: %w", tile.Name, err)
		}
	}
	for name, hex := range c.Palette {
		if _, err := ParseColor(hex); err != nil {
			return fmt.Errorf("palette %s: %w", name, err)
		}
	}
	if tile, ok := c.TileAt("world", c.Player.Spawn); !ok || !tile.Walkable {
		return fmt.Errorf("%w: (%d, %d)", ErrNoSpawn, c.Player.Spawn.X, c.Player.Spawn.Y)
	}
	for _, b := range c.Buddies {
		if b.Name == "" || len(b.Topics) == 0 {
			return fmt.Errorf("buddy %q needs a name and at least one topic", b.Name)
		}
		if _, ok := c.TileAt("world", b.At); !ok {
			return fmt.Errorf("buddy %s is outside the world map at (%d, %d)", b.Name, b.At.X, b.At.Y)
		}
	}
	for _, bed := range c.Beds {
		if _, ok := c.TileAt("world", bed); !ok {
			return fmt.Errorf("bed is outside the world map at (%d, %d)", bed.X, bed.Y)
		}
	}
	return nil
}

// TileAt looks up the tile type at a cell of a named map.
func (c *Config) TileAt(mapName string, cell Cell) (TileConfig, bool) {
	m, ok := c.Maps[mapName]
	if !ok || cell.Y < 0 || cell.Y >= len(m.Rows) {
		return TileConfig{}, false
	}
	row := []rune(m.Rows[cell.Y])
	if cell.X < 0 || cell.X >= len(row) {
		return TileConfig{}, false
	}
	tile, ok := c.Tiles[string(row[cell.X])]
	return tile, ok
}

// Color returns a palette color, or fallback when it is missing.
func (c *Config) Color(name string, fallback color.Color) color.Color {
	hex, ok := c.Palette[name]
	if !ok {
		return fallback
	}
	clr, err := ParseColor(hex)
	if err != nil {
		return fallback
	}
	return clr
}

// Pages splits each sentence into an uppercase word page.
func Pages(sentences ...string) [][]string {
	pages := make([][]string, 0, len(sentences))
	for _, s := range sentences {
		words := strings.Fields(strings.ToUpper(s))
		if len(words) > 0 {
			pages = append(pages, words)
		}
	}
	return pages
}

// ParseColor parses "#RRGGBB" or "#RRGGBBAA".
func ParseColor(hex string) (color.NRGBA, error) {
	s := strings.TrimPrefix(hex, "#")
	var r, g, b uint8
	a := uint8(255)
	switch len(s) {
	case 6:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x", &r, &g, &b); err != nil {
			return color.NRGBA{}, fmt.Errorf("bad color %q: %w", hex, err)
		}
	case 8:
		if _, err := fmt.Sscanf(s, "%02x%02x%02x%02x", &r, &g, &b, &a); err != nil {
			return color.NRGBA{}, fmt.Errorf("bad color %q: %w", hex, err)
		}
	default:
		return color.NRGBA{}, fmt.Errorf("bad color %q: want #RRGGBB", hex)
	}
	return color.NRGBA{R: r, G: g, B: b, A: a}, nil
}

// MustColor parses a color and falls back to magenta, which makes content
// mistakes visible on screen. Validate reports them properly.
func MustColor(hex string) color.NRGBA {
	clr, err := ParseColor(hex)
	if err != nil {
		return color.NRGBA{R: 255, B: 255, A: 255}
	}
	return clr
}
