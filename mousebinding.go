package main

import (
	"math"
	"time"
)

// MouseSettings controls pointer behavior. Loaded from the config file.
type MouseSettings struct {
	EnableMouse      bool    `json:"enable_mouse"`
	EnableDragPan    bool    `json:"enable_drag_pan"`
	DragSensitivity  float64 `json:"drag_sensitivity"`
	DragThreshold    float64 `json:"drag_threshold"`
	WheelSensitivity float64 `json:"wheel_sensitivity"`
	WheelInverted    bool    `json:"wheel_inverted"`
	DoubleClickTime  int     `json:"double_click_time"` // milliseconds
}

// DefaultMouseSettings returns the default mouse configuration.
func DefaultMouseSettings() MouseSettings {
	return MouseSettings{
		EnableMouse:      true,
		EnableDragPan:    true,
		DragSensitivity:  1.0,
		DragThreshold:    4.0,
		WheelSensitivity: 1.0,
		WheelInverted:    false,
		DoubleClickTime:  350,
	}
}

// doubleClickSlop is how far apart two presses may land and still count as a
// double click.
const doubleClickSlop = 8.0

// DoubleClickTracker counts consecutive clicks of the same button within the
// configured time window and position slop.
type DoubleClickTracker struct {
	window   time.Duration
	button   MouseButton
	lastTime time.Time
	lastX    float64
	lastY    float64
	count    int
}

// NewDoubleClickTracker creates a tracker with the given window in
// milliseconds.
func NewDoubleClickTracker(windowMs int) *DoubleClickTracker {
	if windowMs <= 0 {
		windowMs = 350
	}
	return &DoubleClickTracker{window: time.Duration(windowMs) * time.Millisecond}
}

// RegisterClick records a button press and returns the consecutive click
// count (1 for a single click, 2 for a double click, and so on).
func (t *DoubleClickTracker) RegisterClick(button MouseButton, x, y float64, now time.Time) int {
	sameButton := button == t.button
	inTime := now.Sub(t.lastTime) <= t.window
	inPlace := math.Abs(x-t.lastX) <= doubleClickSlop && math.Abs(y-t.lastY) <= doubleClickSlop

	if sameButton && inTime && inPlace {
		t.count++
	} else {
		t.count = 1
	}
	t.button = button
	t.lastTime = now
	t.lastX = x
	t.lastY = y
	return t.count
}
