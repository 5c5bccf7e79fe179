package main

import (
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// ControllerState is the navigation state. Browsing means the current entry
// is settled (Ready or Failed); Transitioning means a navigation target is
// still decoding and a loading indicator is shown.
type ControllerState int

const (
	StateBrowsing ControllerState = iota
	StateTransitioning
)

// resetKind selects how the viewport transform is initialized when a
// navigation target becomes displayable.
type resetKind int

const (
	resetFit resetKind = iota
	resetAnchorTop    // keep zoom and rotation, show the top edge
	resetAnchorBottom // keep zoom and rotation, show the bottom edge
)

// discretePanStep is the arrow-key pan distance in viewport pixels.
const discretePanStep = 50.0

// PixelInfo is the inspected image pixel under the cursor.
type PixelInfo struct {
	X, Y    int
	R, G, B uint8
}

// Frame is everything the renderer needs for one frame.
type Frame struct {
	Image     *ebiten.Image
	Transform Transform
	Path      string
	ImageW    int
	ImageH    int
	Index     int // 1-based
	Total     int
	Loading   bool
	ErrMsg    string
	NoFile    bool
	Pixel     *PixelInfo
}

type dragState struct {
	tracking bool
	moved    bool
	suppress bool // double click consumed the press
	pressX   float64
	pressY   float64
	lastX    float64
	lastY    float64
}

type refreshResult struct {
	entries []CatalogEntry
	err     error
}

// NavigationController owns the catalog, cache and viewport and turns
// semantic input events into navigation and view changes. Everything here
// runs on the interactive goroutine; the only concurrency is the cache
// worker pool behind its channels and the background refresh scan.
type NavigationController struct {
	catalog  *Catalog
	cache    *ImageCache
	viewport *Viewport
	keys     *KeybindingManager
	mouse    MouseSettings

	prefetchN  int
	fullscreen bool

	state        ControllerState
	pending      string // target path while Transitioning
	pendingReset resetKind
	current      *ImageRecord

	drag  dragState
	pixel *PixelInfo

	// A completed left click waits out the double-click window before it
	// navigates, so the first click of a double click does not fire.
	clickPending bool
	clickAt      time.Time

	refreshing bool
	refreshCh  chan refreshResult

	fx []Effect
}

// NewNavigationController wires the controller. Call Start before the first
// Tick to kick off loading of the initial entry.
func NewNavigationController(catalog *Catalog, cache *ImageCache, viewport *Viewport, keys *KeybindingManager, mouse MouseSettings, prefetchN int) *NavigationController {
	if prefetchN < 0 {
		prefetchN = 0
	}
	return &NavigationController{
		catalog:   catalog,
		cache:     cache,
		viewport:  viewport,
		keys:      keys,
		mouse:     mouse,
		prefetchN: prefetchN,
		refreshCh: make(chan refreshResult, 1),
	}
}

// Start issues the load of the current catalog entry.
func (c *NavigationController) Start() {
	c.showCurrent(resetFit)
}

// State returns the navigation state.
func (c *NavigationController) State() ControllerState { return c.state }

// Fullscreen reports the controller's idea of the fullscreen state.
func (c *NavigationController) Fullscreen() bool { return c.fullscreen }

func (c *NavigationController) emit(e Effect) { c.fx = append(c.fx, e) }

func (c *NavigationController) takeEffects() []Effect {
	fx := c.fx
	c.fx = nil
	return fx
}

// showCurrent makes the catalog's current entry the navigation target.
// If it is already decoded it is presented immediately, otherwise the
// controller enters Transitioning until the completion arrives.
func (c *NavigationController) showCurrent(reset resetKind) {
	entry, ok := c.catalog.Current()
	if !ok {
		c.current = nil
		c.pending = ""
		c.state = StateBrowsing
		return
	}

	c.cache.Pin(entry.Path)

	rec := c.cache.Request(entry)
	if rec.State == StateFailed {
		// Re-navigating to a failed entry retries the decode once.
		c.cache.Forget(entry.Path)
		rec = c.cache.Request(entry)
	}

	switch rec.State {
	case StateReady:
		c.present(rec, reset)
	case StateFailed:
		c.settleFailed(rec)
	default:
		c.state = StateTransitioning
		c.pending = entry.Path
		c.pendingReset = reset
	}
}

// present installs a decoded record as the displayed image.
func (c *NavigationController) present(rec *ImageRecord, reset resetKind) {
	c.current = rec
	c.viewport.SetImage(rec.Width, rec.Height)
	switch reset {
	case resetAnchorTop:
		c.viewport.AnchorTop()
	case resetAnchorBottom:
		c.viewport.AnchorBottom()
	default:
		c.viewport.ResetToFit(c.fullscreen)
	}
	c.state = StateBrowsing
	c.pending = ""
	c.pixel = nil
	c.prefetchNeighbors()
}

func (c *NavigationController) settleFailed(rec *ImageRecord) {
	c.current = rec
	c.state = StateBrowsing
	c.pending = ""
	c.pixel = nil
	c.prefetchNeighbors()
}

func (c *NavigationController) prefetchNeighbors() {
	if c.prefetchN > 0 {
		c.cache.Prefetch(c.catalog.Neighbors(c.prefetchN))
	}
}

// Tick drains decode completions and the pending refresh result. Called once
// per update cycle. Returns any effects produced.
func (c *NavigationController) Tick() []Effect {
	for _, path := range c.cache.Drain() {
		if c.state != StateTransitioning || path != c.pending {
			// Stale completion; it stays cached for later navigation.
			continue
		}
		rec, ok := c.cache.Get(path)
		if !ok {
			continue
		}
		if rec.State == StateReady {
			c.present(rec, c.pendingReset)
		} else {
			c.settleFailed(rec)
		}
	}

	if c.state == StateTransitioning && c.pending != "" {
		// The request queue may have been full when the target was first
		// requested; re-request until a worker picks it up.
		if rec, ok := c.cache.Get(c.pending); ok && rec.State == StateUnloaded {
			c.cache.Request(rec.Entry)
		}
	}

	if c.clickPending && time.Since(c.clickAt) >= time.Duration(c.mouse.DoubleClickTime)*time.Millisecond {
		c.clickPending = false
		c.advanceFile(-1, resetFit)
	}

	select {
	case res := <-c.refreshCh:
		c.applyRefresh(res)
	default:
	}

	return c.takeEffects()
}

func (c *NavigationController) applyRefresh(res refreshResult) {
	c.refreshing = false
	if res.err != nil {
		log.Printf("Error: refresh failed: %v", res.err)
		return
	}

	prev, hadPrev := c.catalog.Current()
	c.catalog.ApplyRefresh(res.entries)

	cur, ok := c.catalog.Current()
	if !ok {
		c.current = nil
		c.pending = ""
		c.state = StateBrowsing
		return
	}
	if !hadPrev || cur.Path != prev.Path {
		c.showCurrent(resetFit)
	}
}

// Handle processes one semantic input event and returns any effects.
func (c *NavigationController) Handle(ev Event) []Effect {
	switch ev := ev.(type) {
	case KeyDownEvent:
		if action, ok := c.keys.Resolve(ev.Key, ev.Mod); ok {
			ExecuteAction(action, ev.Mod, c)
		}
	case MouseButtonEvent:
		c.handleMouseButton(ev)
	case MouseMoveEvent:
		c.handleMouseMove(ev)
	case WheelEvent:
		c.handleWheel(ev)
	case ResizeEvent:
		c.viewport.SetViewportSize(ev.Width, ev.Height)
	}
	return c.takeEffects()
}

func (c *NavigationController) handleMouseButton(ev MouseButtonEvent) {
	if !c.mouse.EnableMouse {
		return
	}
	switch {
	case ev.Down && ev.Button == MouseLeft:
		c.drag = dragState{
			tracking: true,
			pressX:   ev.X,
			pressY:   ev.Y,
			lastX:    ev.X,
			lastY:    ev.Y,
		}
		if ev.Clicks == 2 {
			c.drag.suppress = true
			c.clickPending = false
			c.ToggleFullscreen()
		}
	case !ev.Down && ev.Button == MouseLeft:
		was := c.drag
		c.drag = dragState{}
		if !was.suppress && !was.moved {
			c.clickPending = true
			c.clickAt = time.Now()
		}
	case !ev.Down && ev.Button == MouseRight:
		if !c.drag.tracking {
			c.advanceFile(1, resetFit)
		}
	}
}

func (c *NavigationController) handleMouseMove(ev MouseMoveEvent) {
	if c.drag.tracking && ev.Buttons.Has(MouseLeft) {
		if !c.drag.moved {
			dx := ev.X - c.drag.pressX
			dy := ev.Y - c.drag.pressY
			if dx*dx+dy*dy < c.mouse.DragThreshold*c.mouse.DragThreshold {
				c.drag.lastX = ev.X
				c.drag.lastY = ev.Y
				return
			}
			c.drag.moved = true
		}
		if c.mouse.EnableMouse && c.mouse.EnableDragPan {
			mult := dragMultiplier(ev.Mod) * c.mouse.DragSensitivity
			c.viewport.PanBy((ev.X-c.drag.lastX)*mult, (ev.Y-c.drag.lastY)*mult)
		}
		c.drag.lastX = ev.X
		c.drag.lastY = ev.Y
		return
	}

	if ev.Mod.Ctrl {
		c.updatePixelInfo(ev.X, ev.Y)
	}
}

// dragMultiplier scales drag panning by the held modifiers: Alt for fine
// adjustment, Shift for coarse.
func dragMultiplier(mod Modifiers) float64 {
	switch {
	case mod.Alt:
		return 0.2
	case mod.Shift:
		return 4.0
	default:
		return 1.0
	}
}

func (c *NavigationController) updatePixelInfo(cursorX, cursorY float64) {
	if c.current == nil || c.current.State != StateReady {
		return
	}
	vw, vh := c.viewport.Size()
	x, y, ok := InspectPixel(cursorX, cursorY, c.viewport.Transform(), vw, vh, c.current.Width, c.current.Height)
	if !ok {
		c.pixel = nil
		return
	}
	r, g, b, _ := c.current.Image.At(x, y).RGBA()
	c.pixel = &PixelInfo{X: x, Y: y, R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(b >> 8)}
}

func (c *NavigationController) handleWheel(ev WheelEvent) {
	if !c.mouse.EnableMouse {
		return
	}
	dy := ev.DY * c.mouse.WheelSensitivity
	if c.mouse.WheelInverted {
		dy = -dy
	}
	if dy == 0 {
		return
	}

	if ev.Mod.Alt {
		// Wheel up darkens the background, wheel down brightens it.
		if dy > 0 {
			c.emit(EffectAdjustBackground{Delta: -0.1})
		} else {
			c.emit(EffectAdjustBackground{Delta: 0.1})
		}
		return
	}

	if dy > 0 {
		c.viewport.ZoomInStep(ev.X, ev.Y, true)
	} else {
		c.viewport.ZoomOutStep(ev.X, ev.Y, true)
	}
}

// advanceFile moves the catalog cursor by delta files and navigates to the
// resulting entry. A no-op at the catalog boundary.
func (c *NavigationController) advanceFile(delta int, reset resetKind) {
	if !c.catalog.Advance(delta) {
		return
	}
	c.showCurrent(reset)
}

// fileStep is the file navigation step size: Shift skips five at a time.
func fileStep(mod Modifiers) int {
	if mod.Shift {
		return 5
	}
	return 1
}

// Quit requests application shutdown.
func (c *NavigationController) Quit() {
	c.emit(EffectSaveConfig{})
	c.emit(EffectQuit{})
}

// ToggleFullscreen flips the fullscreen flag and asks the window layer to
// apply it.
func (c *NavigationController) ToggleFullscreen() {
	c.fullscreen = !c.fullscreen
	c.emit(EffectToggleFullscreen{})
}

// Refresh rescans the catalog targets in the background. Only one refresh
// runs at a time, and none starts while a navigation is in flight.
func (c *NavigationController) Refresh() {
	if c.refreshing || c.state == StateTransitioning {
		return
	}
	c.refreshing = true
	targets := c.catalog.refreshTargets()
	opts := c.catalog.opts
	go func() {
		entries, err := scanTargets(targets, opts)
		c.refreshCh <- refreshResult{entries: entries, err: err}
	}()
}

// ZoomFit fits the image to the viewport, scaling up small images.
func (c *NavigationController) ZoomFit() { c.viewport.ResetToFit(true) }

// ZoomIdentity shows the image at 100%, keeping the rotation.
func (c *NavigationController) ZoomIdentity() { c.viewport.ResetToIdentity() }

// ZoomInStep zooms in one step around the viewport center.
func (c *NavigationController) ZoomInStep() { c.viewport.ZoomInStep(0, 0, false) }

// ZoomOutStep zooms out one step around the viewport center.
func (c *NavigationController) ZoomOutStep() { c.viewport.ZoomOutStep(0, 0, false) }

// RotateCW rotates the view 90 degrees clockwise.
func (c *NavigationController) RotateCW() { c.viewport.Rotate(90) }

// RotateCCW rotates the view 90 degrees counter-clockwise.
func (c *NavigationController) RotateCCW() { c.viewport.Rotate(-90) }

// ScrollForward pages down through the image; at the bottom edge it moves to
// the next file anchored at its top, preserving zoom and rotation.
func (c *NavigationController) ScrollForward() { c.scroll(1) }

// ScrollBackward pages up through the image; at the top edge it moves to the
// previous file anchored at its bottom, preserving zoom and rotation.
func (c *NavigationController) ScrollBackward() { c.scroll(-1) }

func (c *NavigationController) scroll(dir float64) {
	reset := resetAnchorTop
	if dir < 0 {
		reset = resetAnchorBottom
	}
	if c.current == nil || c.current.State != StateReady {
		c.advanceFile(int(dir), reset)
		return
	}
	if c.viewport.AtPanEdgeY(dir) {
		c.advanceFile(int(dir), reset)
		return
	}
	_, vh := c.viewport.Size()
	c.viewport.PanBy(0, -dir*float64(vh))
}

// FileNext moves forward through the catalog and fits the new image.
func (c *NavigationController) FileNext(mod Modifiers) {
	c.advanceFile(fileStep(mod), resetFit)
}

// FilePrevious moves backward through the catalog and fits the new image.
func (c *NavigationController) FilePrevious(mod Modifiers) {
	c.advanceFile(-fileStep(mod), resetFit)
}

// MoveLeft pans the view left, or moves to the previous file when the whole
// image is visible.
func (c *NavigationController) MoveLeft(mod Modifiers) {
	if c.viewport.IsZoomedOut() {
		c.advanceFile(-fileStep(mod), resetFit)
		return
	}
	c.viewport.PanBy(discretePanStep, 0)
}

// MoveRight pans the view right, or moves to the next file when the whole
// image is visible.
func (c *NavigationController) MoveRight(mod Modifiers) {
	if c.viewport.IsZoomedOut() {
		c.advanceFile(fileStep(mod), resetFit)
		return
	}
	c.viewport.PanBy(-discretePanStep, 0)
}

// MoveUp pans the view up.
func (c *NavigationController) MoveUp(mod Modifiers) {
	c.viewport.PanBy(0, discretePanStep)
}

// MoveDown pans the view down.
func (c *NavigationController) MoveDown(mod Modifiers) {
	c.viewport.PanBy(0, -discretePanStep)
}

// Frame assembles the render state for the current update cycle.
func (c *NavigationController) Frame() Frame {
	f := Frame{Transform: c.viewport.Transform()}

	entry, ok := c.catalog.Current()
	if !ok {
		f.NoFile = true
		return f
	}
	f.Path = entry.Path
	f.Index = c.catalog.Index() + 1
	f.Total = c.catalog.Len()

	if c.state == StateTransitioning {
		f.Loading = true
		return f
	}
	if c.current == nil {
		f.NoFile = true
		return f
	}

	switch c.current.State {
	case StateReady:
		f.Image = c.current.Image
		f.ImageW = c.current.Width
		f.ImageH = c.current.Height
		f.Pixel = c.pixel
	case StateFailed:
		if c.current.Err != nil {
			f.ErrMsg = c.current.Err.Error()
		} else {
			f.ErrMsg = "load failed"
		}
	default:
		f.Loading = true
	}
	return f
}
