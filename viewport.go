package main

import "math"

// Zoom bounds for any transform, regardless of how the zoom was produced.
const (
	minZoom = 0.001
	maxZoom = 1000.0
)

// Discrete zoom levels used by stepped zoom (keyboard +/- and the wheel).
// Finer steps at small zooms, coarser steps as the zoom grows.
var zoomSteps = buildZoomSteps()

func buildZoomSteps() []float64 {
	var steps []float64
	add := func(lo, hi, step int) {
		for v := lo; v < hi; v += step {
			steps = append(steps, float64(v)/100)
		}
	}
	add(15, 50, 7)
	add(50, 100, 10)
	add(100, 200, 25)
	add(200, 600, 100)
	add(600, 1000, 200)
	add(1000, 2000, 500)
	add(2000, 5000, 1000)
	return steps
}

// Transform is the view transform applied to the current image. PanX/PanY are
// the offset of the image center from the viewport center, in viewport
// pixels. Rotation is clockwise degrees, always one of 0/90/180/270.
type Transform struct {
	Zoom     float64
	PanX     float64
	PanY     float64
	Rotation int
}

// Viewport owns the transform for the currently displayed image together with
// the viewport dimensions supplied by resize events. All methods are pure
// in-memory math; nothing here touches the rendering backend.
type Viewport struct {
	width  int
	height int
	imgW   int
	imgH   int
	tf     Transform
}

// NewViewport creates a viewport of the given window size with an identity
// transform and no image.
func NewViewport(width, height int) *Viewport {
	return &Viewport{
		width:  width,
		height: height,
		tf:     Transform{Zoom: 1},
	}
}

// Transform returns the current transform.
func (v *Viewport) Transform() Transform { return v.tf }

// Size returns the viewport dimensions.
func (v *Viewport) Size() (int, int) { return v.width, v.height }

// ImageSize returns the dimensions of the image the transform applies to.
func (v *Viewport) ImageSize() (int, int) { return v.imgW, v.imgH }

// SetViewportSize updates the viewport dimensions and re-clamps the pan.
func (v *Viewport) SetViewportSize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	v.width = width
	v.height = height
	v.clampPan()
}

// SetImage replaces the image the transform applies to. The transform itself
// is left alone; callers follow up with ResetToFit or a preserving reset.
func (v *Viewport) SetImage(w, h int) {
	v.imgW = w
	v.imgH = h
	v.clampPan()
}

// rotatedExtents returns the image extents after rotation, unscaled.
// 90/270 swap width and height.
func (v *Viewport) rotatedExtents() (float64, float64) {
	if v.tf.Rotation == 90 || v.tf.Rotation == 270 {
		return float64(v.imgH), float64(v.imgW)
	}
	return float64(v.imgW), float64(v.imgH)
}

// RenderedSize returns the on-screen extents of the image under the current
// transform.
func (v *Viewport) RenderedSize() (float64, float64) {
	rw, rh := v.rotatedExtents()
	return rw * v.tf.Zoom, rh * v.tf.Zoom
}

// IsZoomedOut reports whether the rendered image fits entirely inside the
// viewport. Rounded to absorb float error on large images.
func (v *Viewport) IsZoomedOut() bool {
	if v.imgW == 0 || v.imgH == 0 {
		return true
	}
	sw, sh := v.RenderedSize()
	return float64(v.width) >= math.Round(sw) && float64(v.height) >= math.Round(sh)
}

// fitZoom computes the zoom making the image's larger relative dimension
// match the viewport exactly.
func (v *Viewport) fitZoom() float64 {
	rw, rh := v.rotatedExtents()
	if rw == 0 || rh == 0 {
		return 1
	}
	return math.Min(float64(v.width)/rw, float64(v.height)/rh)
}

// ResetToFit sets the zoom so the whole image is visible, pan centered.
// Unless allowUpscale is set the zoom is capped at 1, so small images are
// shown at their natural size.
func (v *Viewport) ResetToFit(allowUpscale bool) {
	z := v.fitZoom()
	if !allowUpscale && z > 1 {
		z = 1
	}
	v.tf.Zoom = clampFloat(z, minZoom, maxZoom)
	v.tf.PanX = 0
	v.tf.PanY = 0
}

// ResetToIdentity sets zoom to 1 with a centered pan. Rotation is unchanged.
func (v *Viewport) ResetToIdentity() {
	v.tf.Zoom = 1
	v.tf.PanX = 0
	v.tf.PanY = 0
}

// SetZoom sets an absolute zoom level. When anchored, the image point under
// the anchor position stays put; otherwise the zoom happens around the
// viewport center.
func (v *Viewport) SetZoom(zoom float64, anchorX, anchorY float64, anchored bool) {
	zoom = clampFloat(zoom, minZoom, maxZoom)
	if anchored && v.tf.Zoom > 0 {
		// Vector from viewport center to the anchor.
		ax := anchorX - float64(v.width)/2
		ay := anchorY - float64(v.height)/2
		// Image point (rotated frame, scaled) under the anchor stays fixed:
		// pan' = a - p*zoom' where p = (a - pan)/zoom.
		px := (ax - v.tf.PanX) / v.tf.Zoom
		py := (ay - v.tf.PanY) / v.tf.Zoom
		v.tf.PanX = ax - px*zoom
		v.tf.PanY = ay - py*zoom
	}
	v.tf.Zoom = zoom
	v.clampPan()
}

// ZoomBy multiplies the zoom by factor, anchored at the given viewport point.
func (v *Viewport) ZoomBy(factor, anchorX, anchorY float64) {
	v.SetZoom(v.tf.Zoom*factor, anchorX, anchorY, true)
}

// ZoomInStep advances to the next discrete zoom level above the current one.
func (v *Viewport) ZoomInStep(anchorX, anchorY float64, anchored bool) {
	for _, z := range zoomSteps {
		if z > v.tf.Zoom {
			v.SetZoom(z, anchorX, anchorY, anchored)
			return
		}
	}
}

// ZoomOutStep drops to the next discrete zoom level below the current one.
func (v *Viewport) ZoomOutStep(anchorX, anchorY float64, anchored bool) {
	for i := len(zoomSteps) - 1; i >= 0; i-- {
		if zoomSteps[i] < v.tf.Zoom {
			v.SetZoom(zoomSteps[i], anchorX, anchorY, anchored)
			return
		}
	}
}

// PanBy adds a displacement to the pan, clamped so the image cannot leave
// the viewport.
func (v *Viewport) PanBy(dx, dy float64) {
	v.tf.PanX += dx
	v.tf.PanY += dy
	v.clampPan()
}

// panLimits returns the maximum absolute pan per axis. Zero means the image
// fits along that axis and is forced to center.
func (v *Viewport) panLimits() (float64, float64) {
	sw, sh := v.RenderedSize()
	lx := (sw - float64(v.width)) / 2
	ly := (sh - float64(v.height)) / 2
	if lx < 0 {
		lx = 0
	}
	if ly < 0 {
		ly = 0
	}
	return lx, ly
}

func (v *Viewport) clampPan() {
	lx, ly := v.panLimits()
	v.tf.PanX = clampFloat(v.tf.PanX, -lx, lx)
	v.tf.PanY = clampFloat(v.tf.PanY, -ly, ly)
}

// AtPanEdgeY reports whether the view cannot pan any further vertically in
// the given direction (dir > 0 means toward the bottom of the image).
func (v *Viewport) AtPanEdgeY(dir float64) bool {
	_, ly := v.panLimits()
	if ly == 0 {
		return true
	}
	if dir > 0 {
		return v.tf.PanY <= -ly
	}
	return v.tf.PanY >= ly
}

// AnchorTop keeps zoom and rotation but aligns the view with the top edge of
// the image, pan centered horizontally.
func (v *Viewport) AnchorTop() {
	_, ly := v.panLimits()
	v.tf.PanX = 0
	v.tf.PanY = ly
}

// AnchorBottom keeps zoom and rotation but aligns the view with the bottom
// edge of the image, pan centered horizontally.
func (v *Viewport) AnchorBottom() {
	_, ly := v.panLimits()
	v.tf.PanX = 0
	v.tf.PanY = -ly
}

// Rotate advances the rotation by delta degrees (a multiple of 90). Pan
// clamping is re-derived from the post-rotation bounding box.
func (v *Viewport) Rotate(delta int) {
	v.tf.Rotation = ((v.tf.Rotation+delta)%360 + 360) % 360
	v.clampPan()
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
