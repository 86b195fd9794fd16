// Package camera provides a 2D camera system for viewport control.
package camera

// Camera maps a bounded world rectangle onto the screen. The world origin
// need not be at a corner; arena coordinates are usually centered on 0.
type Camera struct {
	// Position is the camera center in world coordinates
	X, Y float32

	// Zoom level (1.0 = 1 world unit per pixel)
	Zoom float32

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float32

	// World bounds the camera center is kept inside
	MinX, MinY, MaxX, MaxY float32

	// Zoom constraints
	MinZoom, MaxZoom float32

	fitZoom float32
}

// New creates a camera centered on the world bounds, zoomed so the whole
// world plus margin pixels on every side fits the viewport.
func New(viewportW, viewportH float32, minX, minY, maxX, maxY, margin float32) *Camera {
	c := &Camera{
		ViewportW: viewportW,
		ViewportH: viewportH,
		MinX:      minX,
		MinY:      minY,
		MaxX:      maxX,
		MaxY:      maxY,
		MaxZoom:   8.0,
	}
	c.fit(margin)
	c.Reset()
	return c
}

// fit computes the zoom at which the world exactly fills the viewport less
// margin. Zooming out further than half of that is not allowed.
func (c *Camera) fit(margin float32) {
	w, h := c.MaxX-c.MinX, c.MaxY-c.MinY
	zx := (c.ViewportW - 2*margin) / w
	zy := (c.ViewportH - 2*margin) / h
	c.fitZoom = zx
	if zy < c.fitZoom {
		c.fitZoom = zy
	}
	if c.fitZoom <= 0 {
		c.fitZoom = 1
	}
	c.MinZoom = c.fitZoom / 2
}

// FitZoom returns the zoom at which the whole world is visible.
func (c *Camera) FitZoom() float32 { return c.fitZoom }

// WorldToScreen converts world coordinates to screen coordinates.
func (c *Camera) WorldToScreen(wx, wy float32) (sx, sy float32) {
	sx = c.ViewportW/2 + (wx-c.X)*c.Zoom
	sy = c.ViewportH/2 + (wy-c.Y)*c.Zoom
	return sx, sy
}

// ScreenToWorld converts screen coordinates to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float32) (wx, wy float32) {
	wx = c.X + (sx-c.ViewportW/2)/c.Zoom
	wy = c.Y + (sy-c.ViewportH/2)/c.Zoom
	return wx, wy
}

// ScaleToScreen converts a world length to pixels.
func (c *Camera) ScaleToScreen(d float32) float32 {
	return d * c.Zoom
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float32) bool {
	halfW := c.ViewportW/(2*c.Zoom) + radius
	halfH := c.ViewportH/(2*c.Zoom) + radius
	return absf(wx-c.X) <= halfW && absf(wy-c.Y) <= halfH
}

// Resize updates viewport dimensions and keeps the world fitted if the
// camera was at the fitted zoom.
func (c *Camera) Resize(viewportW, viewportH, margin float32) {
	if viewportW == c.ViewportW && viewportH == c.ViewportH {
		return
	}
	fitted := c.Zoom == c.fitZoom
	c.ViewportW = viewportW
	c.ViewportH = viewportH
	c.fit(margin)
	if fitted {
		c.Zoom = c.fitZoom
	}
	c.SetZoom(c.Zoom)
}

// Pan moves the camera by the given delta in screen pixels. The camera
// center stays within the world bounds.
func (c *Camera) Pan(dx, dy float32) {
	c.X = clamp(c.X+dx/c.Zoom, c.MinX, c.MaxX)
	c.Y = clamp(c.Y+dy/c.Zoom, c.MinY, c.MaxY)
}

// SetZoom sets the zoom level, clamped to min/max.
func (c *Camera) SetZoom(zoom float32) {
	c.Zoom = clamp(zoom, c.MinZoom, c.MaxZoom)
}

// ZoomBy multiplies the current zoom by the given factor.
func (c *Camera) ZoomBy(factor float32) {
	c.SetZoom(c.Zoom * factor)
}

// Reset centers the camera on the world at the fitted zoom.
func (c *Camera) Reset() {
	c.X = (c.MinX + c.MaxX) / 2
	c.Y = (c.MinY + c.MaxY) / 2
	c.Zoom = c.fitZoom
}

// VisibleWorldBounds returns the world-coordinate bounds of the visible area.
func (c *Camera) VisibleWorldBounds() (minX, minY, maxX, maxY float32) {
	halfW := c.ViewportW / (2 * c.Zoom)
	halfH := c.ViewportH / (2 * c.Zoom)
	return c.X - halfW, c.Y - halfH, c.X + halfW, c.Y + halfH
}

// absf returns the absolute value of a float32.
func absf(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
