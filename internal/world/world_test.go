package world

import (
	"errors"
	"testing"

	"chosenoffset.com/buddies/internal/config"
	"chosenoffset.com/buddies/internal/render/rendertest"
)

func testTypes() map[rune]*TileType {
	return map[rune]*TileType{
		'.': {Key: '.', Name: "grass", Walkable: true},
		'#': {Key: '#', Name: "wall", Walkable: false},
	}
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid([]string{"###", "#.#", "###"}, testTypes(), 16)
	if err != nil {
		t.Fatalf("NewGrid: %v", err)
	}
	if g.Width != 3 || g.Height != 3 {
		t.Errorf("size = %dx%d", g.Width, g.Height)
	}
	if !g.IsWalkable(Cell{1, 1}) {
		t.Error("center should be walkable")
	}
	if g.IsWalkable(Cell{0, 1}) {
		t.Error("wall should not be walkable")
	}
	if g.IsWalkable(Cell{5, 5}) || g.IsWalkable(Cell{-1, 0}) {
		t.Error("out of bounds should not be walkable")
	}
	w, h := g.PixelSize()
	if w != 48 || h != 48 {
		t.Errorf("PixelSize = %v, %v", w, h)
	}
}

func TestNewGridErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"ragged", []string{"###", "##"}, ErrRaggedGrid},
		{"unknown", []string{"#x#"}, ErrUnknownTile},
		{"empty", nil, ErrEmptyGrid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewGrid(tt.rows, testTypes(), 16)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestDefaultMapsAreRectangular(t *testing.T) {
	cfg := config.Default()
	types := TileTypes(cfg.Tiles)
	for name, m := range cfg.Maps {
		if _, err := NewGrid(m.Rows, types, cfg.TileSize); err != nil {
			t.Errorf("map %s: %v", name, err)
		}
	}
}

func TestCellOf(t *testing.T) {
	tests := []struct {
		p    Point
		want Cell
	}{
		{Point{0, 0}, Cell{0, 0}},
		{Point{15.9, 16}, Cell{0, 1}},
		{Point{-0.5, 33}, Cell{-1, 2}},
	}
	for _, tt := range tests {
		if got := CellOf(tt.p, 16); got != tt.want {
			t.Errorf("CellOf(%v) = %v, want %v", tt.p, got, tt.want)
		}
	}
	if p := PointOf(Cell{2, 3}, 16); p != (Point{32, 48}) {
		t.Errorf("PointOf = %v", p)
	}
}

func TestBitmapsCachePerType(t *testing.T) {
	r := rendertest.NewRenderer()
	g, err := NewGrid([]string{"#.#", "..."}, testTypes(), 16)
	if err != nil {
		t.Fatal(err)
	}
	b := NewBitmaps(r, 16)
	first := b.Get(g.TileAt(Cell{0, 0}))
	if b.Get(g.TileAt(Cell{2, 0})) != first {
		t.Error("same tile type should reuse its bitmap")
	}
	if b.Get(g.TileAt(Cell{1, 0})) == first {
		t.Error("different tile types need different bitmaps")
	}
	if len(r.Images) != 2 {
		t.Errorf("rendered %d bitmaps, want 2", len(r.Images))
	}
}
