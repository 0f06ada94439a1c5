// Package viewport maps between screen pixels and sprite pixels for the viewer.
package viewport

import "math"

// Camera looks at a sprite laid out in its own pixel space. X, Y is the sprite
// point drawn at the screen centre.
type Camera struct {
	X, Y    float64
	Zoom    float64
	MinZoom float64
	MaxZoom float64
	ScreenW int
	ScreenH int
}

func NewCamera(screenW, screenH int) *Camera {
	return &Camera{
		Zoom:    4,
		MinZoom: 1,
		MaxZoom: 16,
		ScreenW: screenW,
		ScreenH: screenH,
	}
}

// Pan moves the camera by a screen pixel delta.
func (c *Camera) Pan(dx, dy float64) {
	c.X -= dx / c.Zoom
	c.Y -= dy / c.Zoom
}

// SetZoom sets the zoom level with clamping.
func (c *Camera) SetZoom(z float64) {
	c.Zoom = math.Max(c.MinZoom, math.Min(c.MaxZoom, z))
}

// ZoomAt changes zoom by delta while keeping the sprite pixel under the
// screen point in place.
func (c *Camera) ZoomAt(delta float64, screenX, screenY int) {
	wx, wy := c.ScreenToSprite(screenX, screenY)
	c.SetZoom(c.Zoom + delta)
	wx2, wy2 := c.ScreenToSprite(screenX, screenY)
	c.X += wx - wx2
	c.Y += wy - wy2
}

// CenterOn puts the middle of a w by h sprite at the screen centre.
func (c *Camera) CenterOn(w, h int) {
	c.X = float64(w) / 2
	c.Y = float64(h) / 2
}

// Origin is where sprite pixel (0, 0) lands on screen.
func (c *Camera) Origin() (float64, float64) {
	return float64(c.ScreenW)/2 - c.X*c.Zoom, float64(c.ScreenH)/2 - c.Y*c.Zoom
}

func (c *Camera) SpriteToScreen(x, y float64) (int, int) {
	ox, oy := c.Origin()
	return int(math.Floor(ox + x*c.Zoom)), int(math.Floor(oy + y*c.Zoom))
}

func (c *Camera) ScreenToSprite(sx, sy int) (float64, float64) {
	ox, oy := c.Origin()
	return (float64(sx) - ox) / c.Zoom, (float64(sy) - oy) / c.Zoom
}

// PixelAt returns the sprite pixel under a screen point, and false when the
// point is outside a w by h sprite.
func (c *Camera) PixelAt(sx, sy, w, h int) (int, int, bool) {
	fx, fy := c.ScreenToSprite(sx, sy)
	x, y := int(math.Floor(fx)), int(math.Floor(fy))
	if x < 0 || y < 0 || x >= w || y >= h {
		return 0, 0, false
	}
	return x, y, true
}
