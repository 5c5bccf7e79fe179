package main

import (
	"errors"
	"flag"
	"log"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

// Game drives ebiten's update/draw loop. Each update cycle polls the input
// state, feeds the resulting events to the controller, drains decode
// completions and applies any window-level effects.
type Game struct {
	reader     *InputReader
	controller *NavigationController
	renderer   *Renderer
	config     *Config

	width  int
	height int

	savedWinW int
	savedWinH int

	quit bool
}

func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}

	for _, ev := range g.reader.Poll(g.width, g.height) {
		g.applyEffects(g.controller.Handle(ev))
	}
	g.applyEffects(g.controller.Tick())

	return nil
}

func (g *Game) applyEffects(effects []Effect) {
	for _, effect := range effects {
		switch effect := effect.(type) {
		case EffectQuit:
			g.quit = true
		case EffectToggleFullscreen:
			g.applyFullscreen()
		case EffectSaveConfig:
			g.saveConfig()
		case EffectAdjustBackground:
			g.renderer.AdjustBrightness(effect.Delta)
		}
	}
}

func (g *Game) applyFullscreen() {
	if g.controller.Fullscreen() {
		g.savedWinW, g.savedWinH = ebiten.WindowSize()
		ebiten.SetFullscreen(true)
	} else {
		ebiten.SetFullscreen(false)
		if g.savedWinW > 0 && g.savedWinH > 0 {
			ebiten.SetWindowSize(g.savedWinW, g.savedWinH)
		}
	}
}

func (g *Game) saveConfig() {
	if g.controller.Fullscreen() {
		if g.savedWinW > 0 && g.savedWinH > 0 {
			g.config.WindowWidth = g.savedWinW
			g.config.WindowHeight = g.savedWinH
		}
	} else {
		g.config.WindowWidth, g.config.WindowHeight = ebiten.WindowSize()
	}
	g.config.BackgroundBrightness = g.renderer.Brightness
	if err := SaveConfig(g.config); err != nil {
		log.Printf("Warning: %v", err)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.renderer.Draw(screen, g.controller.Frame())
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.width, g.height = outsideWidth, outsideHeight
	return outsideWidth, outsideHeight
}

func main() {
	dirFile := flag.String("d", "", "view FILE together with the other images in its directory")
	recursive := flag.Bool("r", false, "recurse into subdirectories")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()
	debugMode = *debug

	config := LoadConfig()

	targets := flag.Args()
	dirMode := false
	if *dirFile != "" {
		targets = append([]string{*dirFile, filepath.Dir(*dirFile)}, targets...)
		dirMode = true
	}
	if len(targets) == 0 {
		log.Fatal("Error: no image files or directories specified")
	}

	opts := CatalogOptions{
		Recursive:  *recursive || config.Recursive,
		SortMethod: config.SortMethod,
	}
	catalog, err := buildCatalog(targets, dirMode, opts)
	if err != nil {
		if errors.Is(err, ErrNoImages) {
			log.Fatal("Error: no image files found")
		}
		log.Fatalf("Error: %v", err)
	}

	if err := InitGraphics(); err != nil {
		log.Fatalf("Error: failed to initialize graphics: %v", err)
	}

	cache := NewImageCache(config.CacheSize, int64(config.CacheBudgetMB)*1024*1024, DefaultDecodeWorkers(), nil)
	defer cache.Close()

	viewport := NewViewport(config.WindowWidth, config.WindowHeight)
	keys := NewKeybindingManager(config.Keybindings)
	controller := NewNavigationController(catalog, cache, viewport, keys, config.Mouse, config.PreloadCount)
	controller.Start()

	g := &Game{
		reader:     NewInputReader(config.Mouse.DoubleClickTime),
		controller: controller,
		renderer:   NewRenderer(config.BackgroundBrightness),
		config:     config,
		width:      config.WindowWidth,
		height:     config.WindowHeight,
	}

	ebiten.SetWindowTitle("riv")
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetScreenClearedEveryFrame(false)

	if err := ebiten.RunGame(g); err != nil {
		log.Fatal(err)
	}
}
