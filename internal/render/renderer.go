package render

import (
	"errors"
	"image"
	"image/color"
)

// Renderer is the main rendering interface that abstracts the underlying
// graphics engine. Game code only talks to this interface so the Ebiten
// backend can be swapped for a headless one in tests.
type Renderer interface {
	// Image operations
	NewImage(width, height int) Image

	// Shape operations, in destination pixel space
	FillRect(dst Image, x, y, width, height float32, clr color.Color)
	StrokeRect(dst Image, x, y, width, height, strokeWidth float32, clr color.Color)
	FillCircle(dst Image, x, y, radius float32, clr color.Color)

	// Text operations
	DrawText(dst Image, text string, x, y int, clr color.Color, scale float64)
	MeasureText(text string, scale float64) (width, height int)
}

// Image represents a renderable image surface that can be drawn to or drawn from.
type Image interface {
	Size() (width, height int)

	Fill(clr color.Color)
	Clear()

	DrawImage(src Image, opts *DrawImageOptions)
	DrawTriangles(vertices []Vertex, indices []uint16, img Image, opts *DrawTrianglesOptions)

	Dispose()
}

// DrawImageOptions contains options for drawing an image.
type DrawImageOptions struct {
	GeoM GeoM

	alpha    float64
	alphaSet bool
}

// SetAlpha sets the alpha multiplier for the draw. Without it the source is
// drawn fully opaque.
func (o *DrawImageOptions) SetAlpha(a float64) {
	o.alpha = a
	o.alphaSet = true
}

// Alpha returns the alpha the backend should apply.
func (o *DrawImageOptions) Alpha() float64 {
	if o == nil || !o.alphaSet {
		return 1
	}
	return o.alpha
}

// GeoM represents a geometric transformation matrix.
type GeoM interface {
	Translate(tx, ty float64)
	Scale(sx, sy float64)
	Rotate(angle float64)
	Reset()

	// SetElements overwrites the matrix with
	//
	//	| a c tx |
	//	| b d ty |
	SetElements(a, b, c, d, tx, ty float64)
}

// NewGeoM creates a new geometric transformation matrix.
// This is implemented by the specific renderer backend.
var NewGeoM func() GeoM

// DrawTrianglesOptions contains options for drawing triangles.
type DrawTrianglesOptions struct {
	AntiAlias bool
}

// Vertex represents a vertex for triangle rendering.
type Vertex struct {
	DstX   float32
	DstY   float32
	SrcX   float32
	SrcY   float32
	ColorR float32
	ColorG float32
	ColorB float32
	ColorA float32
}

// InputManager handles input from the user (keyboard, mouse, touch).
type InputManager interface {
	IsKeyPressed(key Key) bool
	IsKeyJustPressed(key Key) bool
	GetCursorPosition() (x, y int)
	IsMouseButtonJustPressed(button MouseButton) bool

	// JustPressedTouches returns positions of touches that began this frame.
	JustPressedTouches() []image.Point
}

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game listens to.
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyT // debug: force the next idle animation
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEnter
	KeyEscape
	KeyF1 // debug overlay
)

// MouseButton represents a mouse button.
type MouseButton int

// MouseButtonLeft is the primary button; a click counts as a touch.
const MouseButtonLeft MouseButton = iota

// Game represents the game interface that the engine will call.
type Game interface {
	// Update is called once per displayed frame. Fixed-step logic is driven
	// from inside it.
	Update() error

	// Draw draws the game screen. It is called every frame after Update.
	Draw(screen Image)

	// Layout accepts the outside size (e.g., window size) and returns the logical screen size.
	Layout(outsideWidth, outsideHeight int) (screenWidth, screenHeight int)
}

// Engine represents the game engine that manages the game loop and window.
type Engine interface {
	SetWindowSize(width, height int)
	SetWindowTitle(title string)
	SetWindowResizable(resizable bool)

	// SetUpdatePerFrame makes the engine call Update exactly once per
	// rendered frame instead of at its own fixed rate.
	SetUpdatePerFrame()

	// RunGame runs the game loop with the provided game.
	// This is a blocking call that runs until the game ends.
	RunGame(game Game) error
}

// ErrQuit is returned from Game.Update to end the run loop cleanly.
var ErrQuit = errors.New("quit")
