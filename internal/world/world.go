// Package world holds the tile grid a level is built on: tile types,
// walkability queries and pre-rendered tile bitmaps.
package world

import (
	"errors"
	"fmt"
	"image/color"
	"math"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/render"
)

var (
	// ErrRaggedGrid is returned when grid rows have different lengths.
	ErrRaggedGrid = errors.New("grid rows have different lengths")
	// ErrUnknownTile is returned when a grid uses a key with no tile type.
	ErrUnknownTile = errors.New("unknown tile key")
	// ErrEmptyGrid is returned for grids without rows or columns.
	ErrEmptyGrid = errors.New("grid is empty")
)

// Point is a position in world pixels.
type Point struct {
	X, Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Lerp interpolates from p to q by t.
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Cell is an integer tile coordinate.
type Cell struct {
	X, Y int
}

// Add returns c+d.
func (c Cell) Add(d Cell) Cell { return Cell{c.X + d.X, c.Y + d.Y} }

// CellOf returns the tile index containing p: floor(p / tileSize).
func CellOf(p Point, tileSize int) Cell {
	ts := float64(tileSize)
	return Cell{int(math.Floor(p.X / ts)), int(math.Floor(p.Y / ts))}
}

// PointOf returns the top-left world point of a cell.
func PointOf(c Cell, tileSize int) Point {
	return Point{float64(c.X * tileSize), float64(c.Y * tileSize)}
}

// TileType is the shared definition behind every tile with the same key.
type TileType struct {
	Key      rune
	Name     string
	Walkable bool
	Color    color.NRGBA
	Border   *color.NRGBA
}

// Grid is a rectangular array of tile type references.
type Grid struct {
	TileSize int
	Width    int
	Height   int

	tiles [][]*TileType
	types map[rune]*TileType
}

// NewGrid builds a grid from rows of tile keys.
func NewGrid(rows []string, types map[rune]*TileType, tileSize int) (*Grid, error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	width := len([]rune(rows[0]))
	g := &Grid{
		TileSize: tileSize,
		Width:    width,
		Height:   len(rows),
		tiles:    make([][]*TileType, len(rows)),
		types:    types,
	}
	for y, row := range rows {
		keys := []rune(row)
		if len(keys) != width {
			return nil, fmt.Errorf("%w: row %d has %d tiles, expected %d", ErrRaggedGrid, y, len(keys), width)
		}
		g.tiles[y] = make([]*TileType, width)
		for x, key := range keys {
			tile, ok := types[key]
			if !ok {
				return nil, fmt.Errorf("%w %q at (%d, %d)", ErrUnknownTile, key, x, y)
			}
			g.tiles[y][x] = tile
		}
	}
	return g, nil
}

// TileTypes converts the configured tile legend.
func TileTypes(cfg map[string]config.TileConfig) map[rune]*TileType {
	types := make(map[rune]*TileType, len(cfg))
	for key, tc := range cfg {
		r := []rune(key)
		if len(r) != 1 {
			continue
		}
		tt := &TileType{
			Key:      r[0],
			Name:     tc.Name,
			Walkable: tc.Walkable,
			Color:    config.MustColor(tc.Color),
		}
		if tc.Border != "" {
			b := config.MustColor(tc.Border)
			tt.Border = &b
		}
		types[r[0]] = tt
	}
	return types
}

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.Width && c.Y >= 0 && c.Y < g.Height
}

// TileAt returns the tile type at c, or nil outside the grid.
func (g *Grid) TileAt(c Cell) *TileType {
	if !g.InBounds(c) {
		return nil
	}
	return g.tiles[c.Y][c.X]
}

// IsWalkable returns whether the tile at c exists and is walkable.
func (g *Grid) IsWalkable(c Cell) bool {
	tile := g.TileAt(c)
	return tile != nil && tile.Walkable
}

// PixelSize returns the drawable extent of the grid in world pixels.
func (g *Grid) PixelSize() (float64, float64) {
	return float64(g.Width * g.TileSize), float64(g.Height * g.TileSize)
}

// Bitmaps caches one pre-rendered image per tile type name.
type Bitmaps struct {
	r      render.Renderer
	size   int
	images map[string]render.Image
}

// NewBitmaps creates an empty bitmap cache for tiles of the given size.
func NewBitmaps(r render.Renderer, tileSize int) *Bitmaps {
	return &Bitmaps{r: r, size: tileSize, images: make(map[string]render.Image)}
}

// Get returns the bitmap for a tile type, rendering it on first use.
func (b *Bitmaps) Get(tile *TileType) render.Image {
	if img, ok := b.images[tile.Name]; ok {
		return img
	}
	img := b.r.NewImage(b.size, b.size)
	img.Fill(tile.Color)
	if tile.Border != nil {
		s := float32(b.size)
		b.r.StrokeRect(img, 0, 0, s, s, 1, *tile.Border)
	}
	b.images[tile.Name] = img
	return img
}

// Draw blits every tile of the grid.
func (b *Bitmaps) Draw(c *render.Canvas, g *Grid) {
	for y := 0; y < g.Height; y++ {
		for x := 0; x < g.Width; x++ {
			tile := g.tiles[y][x]
			p := PointOf(Cell{x, y}, g.TileSize)
			c.DrawImage(b.Get(tile), p.X, p.Y)
		}
	}
}
