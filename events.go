package main

// Key identifies a keyboard key by its semantic name ("ArrowLeft", "Space",
// "KeyQ", ...). The names follow the same convention used in keybinding
// configuration strings, so config values and runtime events share one
// vocabulary.
type Key string

// Modifiers holds the modifier key state attached to an input event.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// MouseButton identifies a mouse button in semantic events.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
)

// ButtonMask is the set of mouse buttons held during a mouse-move event.
type ButtonMask uint8

const (
	MaskLeft ButtonMask = 1 << iota
	MaskRight
	MaskMiddle
)

// Has reports whether the mask contains the given button.
func (m ButtonMask) Has(b MouseButton) bool {
	return m&(1<<uint(b)) != 0
}

// Event is a semantic input event consumed by the NavigationController.
// Platform event capture lives outside the core; the controller only ever
// sees these already-decoded shapes.
type Event interface {
	isEvent()
}

// KeyDownEvent is a key press with its modifier state.
type KeyDownEvent struct {
	Key Key
	Mod Modifiers
}

// MouseMoveEvent is a cursor movement with the buttons held during it.
type MouseMoveEvent struct {
	X, Y    float64
	Buttons ButtonMask
	Mod     Modifiers
}

// MouseButtonEvent is a button press or release at a position. Clicks carries
// the click count for the press (2 for a double click), 0 on release events
// that end a drag.
type MouseButtonEvent struct {
	Button MouseButton
	X, Y   float64
	Down   bool
	Clicks int
	Mod    Modifiers
}

// WheelEvent is a scroll-wheel movement at a cursor position.
type WheelEvent struct {
	DX, DY float64
	X, Y   float64
	Mod    Modifiers
}

// ResizeEvent reports a new viewport (window client area) size.
type ResizeEvent struct {
	Width  int
	Height int
}

func (KeyDownEvent) isEvent()     {}
func (MouseMoveEvent) isEvent()   {}
func (MouseButtonEvent) isEvent() {}
func (WheelEvent) isEvent()       {}
func (ResizeEvent) isEvent()      {}

// Effect is an instruction for the external collaborators (window manager,
// config persistence) produced by the controller. Cache and catalog work is
// done by the controller itself; effects carry only what the core cannot do.
type Effect interface {
	isEffect()
}

// EffectQuit asks the outer loop to terminate.
type EffectQuit struct{}

// EffectToggleFullscreen asks the window collaborator to flip fullscreen.
type EffectToggleFullscreen struct{}

// EffectSaveConfig asks the outer loop to persist the current configuration.
type EffectSaveConfig struct{}

// EffectAdjustBackground shifts the render background brightness.
type EffectAdjustBackground struct {
	Delta float64
}

func (EffectQuit) isEffect()             {}
func (EffectToggleFullscreen) isEffect() {}
func (EffectSaveConfig) isEffect()       {}
func (EffectAdjustBackground) isEffect() {}
