package render

import (
	"image/color"
	"math"
)

// Matrix is a 2D affine transform with canvas semantics: each call to
// Translate, Rotate or Scale applies to points before the transforms already
// in the matrix, so calls read in the same order as nested drawing code.
type Matrix struct {
	A, B, C, D, Tx, Ty float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// Translate prepends a translation.
func (m *Matrix) Translate(x, y float64) {
	m.Tx += m.A*x + m.C*y
	m.Ty += m.B*x + m.D*y
}

// Scale prepends a scale.
func (m *Matrix) Scale(sx, sy float64) {
	m.A *= sx
	m.B *= sx
	m.C *= sy
	m.D *= sy
}

// Rotate prepends a rotation by theta radians.
func (m *Matrix) Rotate(theta float64) {
	sin, cos := math.Sincos(theta)
	a, b, c, d := m.A, m.B, m.C, m.D
	m.A = a*cos + c*sin
	m.B = b*cos + d*sin
	m.C = c*cos - a*sin
	m.D = d*cos - b*sin
}

// Apply transforms the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.Tx, m.B*x + m.D*y + m.Ty
}

// AxisAligned reports whether the transform has no rotation or shear.
func (m Matrix) AxisAligned() bool {
	return m.B == 0 && m.C == 0
}

// GeoM converts the matrix into a backend GeoM.
func (m Matrix) GeoM() GeoM {
	g := NewGeoM()
	g.SetElements(m.A, m.B, m.C, m.D, m.Tx, m.Ty)
	return g
}

type canvasState struct {
	m     Matrix
	alpha float64
}

// Canvas wraps a destination image with a transform and global alpha that
// can be pushed and popped around each entity's draw.
type Canvas struct {
	r     Renderer
	dst   Image
	m     Matrix
	alpha float64
	stack []canvasState
	white Image
}

// NewCanvas creates a canvas drawing onto dst.
func NewCanvas(r Renderer, dst Image) *Canvas {
	return &Canvas{r: r, dst: dst, m: Identity(), alpha: 1}
}

// Renderer returns the renderer backing this canvas.
func (c *Canvas) Renderer() Renderer { return c.r }

// Target returns the destination image.
func (c *Canvas) Target() Image { return c.dst }

// Size returns the size of the destination image.
func (c *Canvas) Size() (int, int) { return c.dst.Size() }

// Save pushes the current transform and alpha.
func (c *Canvas) Save() {
	c.stack = append(c.stack, canvasState{m: c.m, alpha: c.alpha})
}

// Restore pops the last saved transform and alpha. Restore without a
// matching Save resets to identity.
func (c *Canvas) Restore() {
	if len(c.stack) == 0 {
		c.m = Identity()
		c.alpha = 1
		return
	}
	top := c.stack[len(c.stack)-1]
	c.stack = c.stack[:len(c.stack)-1]
	c.m = top.m
	c.alpha = top.alpha
}

// Depth returns the number of outstanding Saves.
func (c *Canvas) Depth() int { return len(c.stack) }

// Matrix returns the current transform.
func (c *Canvas) Matrix() Matrix { return c.m }

func (c *Canvas) Translate(x, y float64) { c.m.Translate(x, y) }
func (c *Canvas) Rotate(theta float64)   { c.m.Rotate(theta) }
func (c *Canvas) Scale(sx, sy float64)   { c.m.Scale(sx, sy) }

// SetAlpha sets the global alpha applied to subsequent draws.
func (c *Canvas) SetAlpha(a float64) {
	c.alpha = math.Max(0, math.Min(1, a))
}

// Alpha returns the global alpha.
func (c *Canvas) Alpha() float64 { return c.alpha }

// Clear fills the whole destination, ignoring the transform.
func (c *Canvas) Clear(clr color.Color) {
	c.dst.Fill(clr)
}

// FillRect fills a rectangle given in local coordinates.
func (c *Canvas) FillRect(x, y, w, h float64, clr color.Color) {
	clr = c.fade(clr)
	if c.m.AxisAligned() {
		x0, y0 := c.m.Apply(x, y)
		x1, y1 := c.m.Apply(x+w, y+h)
		c.r.FillRect(c.dst, float32(math.Min(x0, x1)), float32(math.Min(y0, y1)),
			float32(math.Abs(x1-x0)), float32(math.Abs(y1-y0)), clr)
		return
	}
	c.fillQuad(x, y, w, h, clr)
}

// StrokeRect outlines a rectangle given in local coordinates.
func (c *Canvas) StrokeRect(x, y, w, h, lineWidth float64, clr color.Color) {
	c.FillRect(x, y, w, lineWidth, clr)
	c.FillRect(x, y+h-lineWidth, w, lineWidth, clr)
	c.FillRect(x, y+lineWidth, lineWidth, h-2*lineWidth, clr)
	c.FillRect(x+w-lineWidth, y+lineWidth, lineWidth, h-2*lineWidth, clr)
}

// FillCircle fills a circle given in local coordinates. The radius follows
// the transform's scale; rotation does not change a circle.
func (c *Canvas) FillCircle(x, y, radius float64, clr color.Color) {
	cx, cy := c.m.Apply(x, y)
	r := radius * math.Sqrt(math.Abs(c.m.A*c.m.D-c.m.B*c.m.C))
	c.r.FillCircle(c.dst, float32(cx), float32(cy), float32(r), c.fade(clr))
}

// DrawImage draws img with its top-left corner at local (x, y).
func (c *Canvas) DrawImage(img Image, x, y float64) {
	m := c.m
	m.Translate(x, y)
	opts := &DrawImageOptions{GeoM: m.GeoM()}
	opts.SetAlpha(c.alpha)
	c.dst.DrawImage(img, opts)
}

// DrawText draws text with its top-left corner at local (x, y). Text is
// never rotated; only the position and scale follow the transform.
func (c *Canvas) DrawText(s string, x, y float64, clr color.Color, scale float64) {
	px, py := c.m.Apply(x, y)
	c.r.DrawText(c.dst, s, int(math.Round(px)), int(math.Round(py)), c.fade(clr), scale*c.m.A)
}

func (c *Canvas) fillQuad(x, y, w, h float64, clr color.Color) {
	if c.white == nil {
		c.white = c.r.NewImage(1, 1)
		c.white.Fill(color.White)
	}
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	corners := [4][2]float64{{x, y}, {x + w, y}, {x + w, y + h}, {x, y + h}}
	vertices := make([]Vertex, 4)
	for i, p := range corners {
		dx, dy := c.m.Apply(p[0], p[1])
		vertices[i] = Vertex{
			DstX:   float32(dx),
			DstY:   float32(dy),
			ColorR: float32(n.R) / 255,
			ColorG: float32(n.G) / 255,
			ColorB: float32(n.B) / 255,
			ColorA: float32(n.A) / 255,
		}
	}
	c.dst.DrawTriangles(vertices, []uint16{0, 1, 2, 0, 2, 3}, c.white, &DrawTrianglesOptions{AntiAlias: false})
}

func (c *Canvas) fade(clr color.Color) color.Color {
	if c.alpha >= 1 {
		return clr
	}
	n := color.NRGBAModel.Convert(clr).(color.NRGBA)
	n.A = uint8(float64(n.A) * c.alpha)
	return n
}
