package main

import "math"

// InspectPixel inverse-maps a cursor position through the transform to image
// pixel coordinates: undo pan, undo zoom, undo rotation. Returns false when
// the cursor is outside the image.
func InspectPixel(cursorX, cursorY float64, tf Transform, viewportW, viewportH, imgW, imgH int) (int, int, bool) {
	if imgW <= 0 || imgH <= 0 || tf.Zoom <= 0 {
		return 0, 0, false
	}

	// Undo pan: vector from the rendered image center to the cursor.
	vx := cursorX - float64(viewportW)/2 - tf.PanX
	vy := cursorY - float64(viewportH)/2 - tf.PanY

	// Undo zoom: coordinates in the rotated image frame.
	px := vx / tf.Zoom
	py := vy / tf.Zoom

	// Undo rotation: back into the unrotated image frame.
	var qx, qy float64
	switch tf.Rotation {
	case 90:
		qx, qy = py, -px
	case 180:
		qx, qy = -px, -py
	case 270:
		qx, qy = -py, px
	default:
		qx, qy = px, py
	}

	x := math.Floor(qx + float64(imgW)/2)
	y := math.Floor(qy + float64(imgH)/2)
	if x < 0 || x >= float64(imgW) || y < 0 || y >= float64(imgH) {
		return 0, 0, false
	}
	return int(x), int(y), true
}
