package main

import (
	"strconv"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// keyNames maps ebiten keys to the semantic key names used in keybindings.
var keyNames = buildKeyNames()

func buildKeyNames() map[ebiten.Key]Key {
	names := map[ebiten.Key]Key{
		ebiten.KeyArrowLeft:  "ArrowLeft",
		ebiten.KeyArrowRight: "ArrowRight",
		ebiten.KeyArrowUp:    "ArrowUp",
		ebiten.KeyArrowDown:  "ArrowDown",
		ebiten.KeySpace:      "Space",
		ebiten.KeyBackspace:  "Backspace",
		ebiten.KeyPageUp:     "PageUp",
		ebiten.KeyPageDown:   "PageDown",
		ebiten.KeyEqual:      "Equal",
		ebiten.KeyMinus:      "Minus",
		ebiten.KeyEscape:     "Escape",
		ebiten.KeyEnter:      "Enter",
		ebiten.KeyHome:       "Home",
		ebiten.KeyEnd:        "End",
		ebiten.KeyTab:        "Tab",
	}
	for k := ebiten.KeyA; k <= ebiten.KeyZ; k++ {
		names[k] = Key("Key" + string(rune('A'+k-ebiten.KeyA)))
	}
	for k := ebiten.KeyDigit0; k <= ebiten.KeyDigit9; k++ {
		names[k] = Key("Digit" + string(rune('0'+k-ebiten.KeyDigit0)))
	}
	for k := ebiten.KeyF1; k <= ebiten.KeyF12; k++ {
		names[k] = Key("F" + strconv.Itoa(int(k-ebiten.KeyF1)+1))
	}
	return names
}

// InputReader polls ebiten's input state once per update cycle and converts
// it into semantic events.
type InputReader struct {
	doubleClick *DoubleClickTracker

	lastX, lastY int
	lastW, lastH int

	keys []ebiten.Key
}

// NewInputReader creates a reader using the given double-click window.
func NewInputReader(doubleClickMs int) *InputReader {
	return &InputReader{
		doubleClick: NewDoubleClickTracker(doubleClickMs),
		lastX:       -1,
		lastY:       -1,
	}
}

func currentModifiers() Modifiers {
	return Modifiers{
		Shift: ebiten.IsKeyPressed(ebiten.KeyShift),
		Ctrl:  ebiten.IsKeyPressed(ebiten.KeyControl),
		Alt:   ebiten.IsKeyPressed(ebiten.KeyAlt),
	}
}

func currentButtons() ButtonMask {
	var mask ButtonMask
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		mask |= MaskLeft
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight) {
		mask |= MaskRight
	}
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonMiddle) {
		mask |= MaskMiddle
	}
	return mask
}

// Poll reads the frame's input state. width and height are the current
// logical screen size so viewport resizes surface as events too.
func (r *InputReader) Poll(width, height int) []Event {
	var events []Event

	if width != r.lastW || height != r.lastH {
		r.lastW = width
		r.lastH = height
		events = append(events, ResizeEvent{Width: width, Height: height})
	}

	mod := currentModifiers()

	r.keys = inpututil.AppendJustPressedKeys(r.keys[:0])
	for _, k := range r.keys {
		name, ok := keyNames[k]
		if !ok {
			continue
		}
		events = append(events, KeyDownEvent{Key: name, Mod: mod})
	}

	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	if cx != r.lastX || cy != r.lastY {
		r.lastX = cx
		r.lastY = cy
		events = append(events, MouseMoveEvent{X: x, Y: y, Buttons: currentButtons(), Mod: mod})
	}

	events = r.appendButtonEvents(events, ebiten.MouseButtonLeft, MouseLeft, x, y, mod)
	events = r.appendButtonEvents(events, ebiten.MouseButtonRight, MouseRight, x, y, mod)
	events = r.appendButtonEvents(events, ebiten.MouseButtonMiddle, MouseMiddle, x, y, mod)

	if wx, wy := ebiten.Wheel(); wx != 0 || wy != 0 {
		events = append(events, WheelEvent{DX: wx, DY: wy, X: x, Y: y, Mod: mod})
	}

	return events
}

func (r *InputReader) appendButtonEvents(events []Event, eb ebiten.MouseButton, button MouseButton, x, y float64, mod Modifiers) []Event {
	if inpututil.IsMouseButtonJustPressed(eb) {
		clicks := r.doubleClick.RegisterClick(button, x, y, time.Now())
		events = append(events, MouseButtonEvent{Button: button, X: x, Y: y, Down: true, Clicks: clicks, Mod: mod})
	}
	if inpututil.IsMouseButtonJustReleased(eb) {
		events = append(events, MouseButtonEvent{Button: button, X: x, Y: y, Down: false, Mod: mod})
	}
	return events
}
