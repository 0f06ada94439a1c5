package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenterOn(t *testing.T) {
	c := NewCamera(100, 80)
	c.SetZoom(2)
	c.CenterOn(10, 6)

	x, y := c.SpriteToScreen(0, 0)
	assert.Equal(t, 40, x)
	assert.Equal(t, 34, y)
	x, y = c.SpriteToScreen(10, 6)
	assert.Equal(t, 60, x)
	assert.Equal(t, 46, y)
}

func TestSetZoomClamps(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetZoom(0.1)
	assert.Equal(t, c.MinZoom, c.Zoom)
	c.SetZoom(99)
	assert.Equal(t, c.MaxZoom, c.Zoom)
}

func TestPanFollowsPointer(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetZoom(4)
	before, _ := c.SpriteToScreen(3, 3)
	c.Pan(8, 0)
	after, _ := c.SpriteToScreen(3, 3)
	assert.Equal(t, before+8, after)
}

func TestZoomAtKeepsPointStill(t *testing.T) {
	c := NewCamera(200, 200)
	c.CenterOn(16, 16)
	wx, wy := c.ScreenToSprite(130, 70)

	c.ZoomAt(3, 130, 70)
	assert.Equal(t, 7.0, c.Zoom)
	gx, gy := c.ScreenToSprite(130, 70)
	assert.InDelta(t, wx, gx, 1e-9)
	assert.InDelta(t, wy, gy, 1e-9)
}

func TestPixelAt(t *testing.T) {
	c := NewCamera(100, 100)
	c.SetZoom(10)
	c.CenterOn(2, 2)

	x, y, ok := c.PixelAt(55, 45, 2, 2)
	assert.True(t, ok)
	assert.Equal(t, 1, x)
	assert.Equal(t, 0, y)

	_, _, ok = c.PixelAt(29, 50, 2, 2)
	assert.False(t, ok)
	_, _, ok = c.PixelAt(70, 50, 2, 2)
	assert.False(t, ok)
}
