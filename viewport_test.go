package main

import (
	"math"
	"testing"
)

const floatTolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < floatTolerance
}

func TestResetToFit(t *testing.T) {
	tests := []struct {
		name         string
		vw, vh       int
		iw, ih       int
		allowUpscale bool
		expectedZoom float64
	}{
		{"Large image shrinks to width", 800, 600, 1600, 600, false, 0.5},
		{"Large image shrinks to height", 800, 600, 800, 1200, false, 0.5},
		{"Small image keeps natural size", 800, 600, 400, 300, false, 1.0},
		{"Small image upscales when allowed", 800, 600, 400, 300, true, 2.0},
		{"Exact fit", 800, 600, 800, 600, false, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(tt.vw, tt.vh)
			v.SetImage(tt.iw, tt.ih)
			v.ResetToFit(tt.allowUpscale)

			tf := v.Transform()
			if !almostEqual(tf.Zoom, tt.expectedZoom) {
				t.Errorf("Expected zoom %v, got %v", tt.expectedZoom, tf.Zoom)
			}
			if tf.PanX != 0 || tf.PanY != 0 {
				t.Errorf("Expected centered pan, got (%v, %v)", tf.PanX, tf.PanY)
			}
		})
	}
}

func TestZoomClampedToBounds(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1000, 1000)

	v.SetZoom(1e9, 0, 0, false)
	if got := v.Transform().Zoom; got != maxZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", maxZoom, got)
	}

	v.SetZoom(1e-9, 0, 0, false)
	if got := v.Transform().Zoom; got != minZoom {
		t.Errorf("Expected zoom clamped to %v, got %v", minZoom, got)
	}
}

func TestPanClampedToImageBounds(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1600, 1200) // rendered 1600x1200 at zoom 1
	v.SetZoom(1, 0, 0, false)

	v.PanBy(10000, -10000)
	tf := v.Transform()
	if tf.PanX != 400 {
		t.Errorf("Expected PanX clamped to 400, got %v", tf.PanX)
	}
	if tf.PanY != -300 {
		t.Errorf("Expected PanY clamped to -300, got %v", tf.PanY)
	}
}

func TestPanForcedCenteredWhenImageFits(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(400, 300)
	v.SetZoom(1, 0, 0, false)

	v.PanBy(50, 50)
	tf := v.Transform()
	if tf.PanX != 0 || tf.PanY != 0 {
		t.Errorf("Expected pan forced to center, got (%v, %v)", tf.PanX, tf.PanY)
	}
}

func TestPanClampPerAxis(t *testing.T) {
	// Image wider than the viewport but shorter: X pans, Y stays centered.
	v := NewViewport(800, 600)
	v.SetImage(1600, 300)
	v.SetZoom(1, 0, 0, false)

	v.PanBy(100, 100)
	tf := v.Transform()
	if tf.PanX != 100 {
		t.Errorf("Expected PanX 100, got %v", tf.PanX)
	}
	if tf.PanY != 0 {
		t.Errorf("Expected PanY forced to 0, got %v", tf.PanY)
	}
}

func TestAnchoredZoomKeepsImagePointFixed(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(4000, 3000)
	v.SetZoom(1, 0, 0, false)
	v.PanBy(-120, 80)

	anchorX, anchorY := 200.0, 150.0
	before := v.Transform()

	// Image point under the anchor, in the zoom-scaled rotated frame.
	px := (anchorX - float64(800)/2 - before.PanX) / before.Zoom
	py := (anchorY - float64(600)/2 - before.PanY) / before.Zoom

	v.SetZoom(2, anchorX, anchorY, true)

	after := v.Transform()
	gotX := px*after.Zoom + after.PanX + float64(800)/2
	gotY := py*after.Zoom + after.PanY + float64(600)/2
	if !almostEqual(gotX, anchorX) || !almostEqual(gotY, anchorY) {
		t.Errorf("Anchored point moved: expected (%v, %v), got (%v, %v)",
			anchorX, anchorY, gotX, gotY)
	}
}

func TestZoomSteps(t *testing.T) {
	tests := []struct {
		name     string
		start    float64
		zoomIn   bool
		expected float64
	}{
		{"In from 100%", 1.0, true, 1.25},
		{"Out from 100%", 1.0, false, 0.9},
		{"In from 90%", 0.9, true, 1.0},
		{"In between steps", 1.1, true, 1.25},
		{"Out between steps", 1.1, false, 1.0},
		{"In from 200%", 2.0, true, 3.0},
		{"Out below smallest stays", 0.1, false, 0.1},
		{"In above largest stays", 45.0, true, 45.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewViewport(800, 600)
			v.SetImage(100000, 100000)
			v.tf.Zoom = tt.start
			if tt.zoomIn {
				v.ZoomInStep(0, 0, false)
			} else {
				v.ZoomOutStep(0, 0, false)
			}
			if got := v.Transform().Zoom; !almostEqual(got, tt.expected) {
				t.Errorf("Expected zoom %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestRotationNormalizedAndExtentsSwap(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1600, 400)

	v.Rotate(-90)
	if got := v.Transform().Rotation; got != 270 {
		t.Errorf("Expected rotation 270, got %d", got)
	}

	// At 270 the rendered extents swap: 400 wide, 1600 tall.
	sw, sh := v.RenderedSize()
	if sw != 400 || sh != 1600 {
		t.Errorf("Expected rendered size 400x1600, got %vx%v", sw, sh)
	}

	for i := 0; i < 4; i++ {
		v.Rotate(90)
	}
	if got := v.Transform().Rotation; got != 270 {
		t.Errorf("Expected full turn back to 270, got %d", got)
	}
}

func TestRotationReclampsPan(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1600, 600)
	v.SetZoom(1, 0, 0, false)
	v.PanBy(400, 0) // at the X limit

	// After rotating, the rendered image is 600x1600: it fits horizontally,
	// so the X pan must snap back to center.
	v.Rotate(90)
	tf := v.Transform()
	if tf.PanX != 0 {
		t.Errorf("Expected PanX re-clamped to 0 after rotation, got %v", tf.PanX)
	}
}

func TestIsZoomedOut(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1600, 1200)

	v.ResetToFit(false)
	if !v.IsZoomedOut() {
		t.Error("Expected fitted image to report zoomed out")
	}

	v.SetZoom(1, 0, 0, false)
	if v.IsZoomedOut() {
		t.Error("Expected 100% zoom on large image to report not zoomed out")
	}
}

func TestAtPanEdgeY(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(800, 1800)
	v.SetZoom(1, 0, 0, false)

	v.AnchorTop()
	if v.AtPanEdgeY(1) {
		t.Error("Top-anchored view should not be at the bottom edge")
	}
	if !v.AtPanEdgeY(-1) {
		t.Error("Top-anchored view should be at the top edge")
	}

	v.AnchorBottom()
	if !v.AtPanEdgeY(1) {
		t.Error("Bottom-anchored view should be at the bottom edge")
	}

	// A fitting image is always at both edges.
	v.SetImage(400, 300)
	if !v.AtPanEdgeY(1) || !v.AtPanEdgeY(-1) {
		t.Error("Fitting image should report both edges reached")
	}
}

func TestSetViewportSizeReclampsPan(t *testing.T) {
	v := NewViewport(800, 600)
	v.SetImage(1000, 800)
	v.SetZoom(1, 0, 0, false)
	v.PanBy(100, 100)

	// Growing the viewport beyond the image forces the pan back to center.
	v.SetViewportSize(1200, 900)
	tf := v.Transform()
	if tf.PanX != 0 || tf.PanY != 0 {
		t.Errorf("Expected pan re-clamped to center, got (%v, %v)", tf.PanX, tf.PanY)
	}
}
