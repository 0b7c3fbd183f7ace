// Package rendertest provides a headless render backend that records draw
// calls, for tests that exercise drawing code without a GPU.
package rendertest

import (
	"fmt"
	"image/color"

	"chosenoffset.com/buddies/internal/render"
)

func init() {
	if render.NewGeoM == nil {
		render.NewGeoM = func() render.GeoM { return &GeoM{M: render.Identity()} }
	}
}

// Op is a single recorded draw call.
type Op struct {
	Kind  string // "fill", "rect", "stroke", "circle", "text", "image", "triangles", "clear"
	X, Y  float64
	W, H  float64
	Text  string
	Alpha float64
	Src   *Image
	GeoM  render.Matrix
	Color color.Color
}

// Renderer is a recording render.Renderer.
type Renderer struct {
	Images []*Image
}

// NewRenderer returns an empty recording renderer.
func NewRenderer() *Renderer {
	return &Renderer{}
}

// NewImage creates a recording image.
func (r *Renderer) NewImage(width, height int) render.Image {
	img := &Image{W: width, H: height, ID: len(r.Images)}
	r.Images = append(r.Images, img)
	return img
}

func (r *Renderer) FillRect(dst render.Image, x, y, width, height float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "rect", X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

func (r *Renderer) StrokeRect(dst render.Image, x, y, width, height, strokeWidth float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "stroke", X: float64(x), Y: float64(y), W: float64(width), H: float64(height), Color: clr})
}

func (r *Renderer) FillCircle(dst render.Image, x, y, radius float32, clr color.Color) {
	dst.(*Image).record(Op{Kind: "circle", X: float64(x), Y: float64(y), W: float64(radius), Color: clr})
}

func (r *Renderer) DrawText(dst render.Image, text string, x, y int, clr color.Color, scale float64) {
	dst.(*Image).record(Op{Kind: "text", X: float64(x), Y: float64(y), Text: text, Color: clr})
}

// MeasureText uses a fixed 6x16 cell per character, like the debug font.
func (r *Renderer) MeasureText(text string, scale float64) (int, int) {
	return int(float64(len(text)*6) * scale), int(16 * scale)
}

// Image is a recording render.Image.
type Image struct {
	ID       int
	W, H     int
	Ops      []Op
	Disposed bool
}

func (i *Image) record(op Op) {
	i.Ops = append(i.Ops, op)
}

func (i *Image) String() string {
	return fmt.Sprintf("image#%d(%dx%d)", i.ID, i.W, i.H)
}

func (i *Image) Size() (int, int)     { return i.W, i.H }
func (i *Image) Fill(clr color.Color) { i.record(Op{Kind: "fill", Color: clr}) }
func (i *Image) Clear()               { i.record(Op{Kind: "clear"}) }
func (i *Image) Dispose()             { i.Disposed = true }

func (i *Image) DrawImage(src render.Image, opts *render.DrawImageOptions) {
	op := Op{Kind: "image", Src: src.(*Image), Alpha: opts.Alpha(), GeoM: render.Identity()}
	if opts != nil && opts.GeoM != nil {
		op.GeoM = opts.GeoM.(*GeoM).M
	}
	i.record(op)
}

func (i *Image) DrawTriangles(vertices []render.Vertex, indices []uint16, img render.Image, opts *render.DrawTrianglesOptions) {
	i.record(Op{Kind: "triangles", W: float64(len(vertices))})
}

// Count returns how many recorded ops have the given kind.
func (i *Image) Count(kind string) int {
	n := 0
	for _, op := range i.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}

// Reset forgets recorded ops.
func (i *Image) Reset() {
	i.Ops = nil
}

// GeoM is a render.GeoM backed by render.Matrix. Its Translate/Scale/Rotate
// follow Ebiten's post-multiplying order.
type GeoM struct {
	M render.Matrix
}

func (g *GeoM) Translate(tx, ty float64) {
	g.M.Tx += tx
	g.M.Ty += ty
}

func (g *GeoM) Scale(sx, sy float64) {
	g.M.A *= sx
	g.M.C *= sx
	g.M.Tx *= sx
	g.M.B *= sy
	g.M.D *= sy
	g.M.Ty *= sy
}

func (g *GeoM) Rotate(angle float64) {
	m := render.Identity()
	m.Rotate(angle)
	a, b, c, d, tx, ty := g.M.A, g.M.B, g.M.C, g.M.D, g.M.Tx, g.M.Ty
	g.M.A = m.A*a + m.C*b
	g.M.C = m.A*c + m.C*d
	g.M.Tx = m.A*tx + m.C*ty
	g.M.B = m.B*a + m.D*b
	g.M.D = m.B*c + m.D*d
	g.M.Ty = m.B*tx + m.D*ty
}

func (g *GeoM) Reset() { g.M = render.Identity() }

func (g *GeoM) SetElements(a, b, c, d, tx, ty float64) {
	g.M = render.Matrix{A: a, B: b, C: c, D: d, Tx: tx, Ty: ty}
}
