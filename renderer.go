package main

import (
	"fmt"
	"image/color"
	"math"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
)

// Common colors used in rendering
var (
	colorWhite    = color.RGBA{255, 255, 255, 255}
	colorGray     = color.RGBA{180, 180, 180, 255}
	colorRed      = color.RGBA{255, 120, 120, 255}
	colorGreen    = color.RGBA{120, 255, 120, 255}
	colorBlue     = color.RGBA{140, 160, 255, 255}
	bgColorMedium = color.RGBA{0, 0, 0, 160}
)

const statusBarHeight = 24.0

// Renderer draws a Frame onto the screen: the transformed image, the status
// line and the pixel inspection overlay.
type Renderer struct {
	statusFont *text.GoTextFace

	// Brightness is the background shade, 0.0 black to 1.0 white.
	Brightness float64

	errorImagePath string
	errorImage     *ebiten.Image
}

// NewRenderer creates a Renderer. InitGraphics must have been called.
func NewRenderer(brightness float64) *Renderer {
	return &Renderer{
		statusFont: &text.GoTextFace{Source: globalFontSource, Size: 14.0},
		Brightness: brightness,
	}
}

// AdjustBrightness shifts the background shade, clamped to [0, 1].
func (r *Renderer) AdjustBrightness(delta float64) {
	r.Brightness = clampFloat(r.Brightness+delta, 0.0, 1.0)
}

func (r *Renderer) backgroundColor() color.RGBA {
	v := uint8(math.Round(r.Brightness * 255))
	return color.RGBA{v, v, v, 255}
}

// Draw renders one frame.
func (r *Renderer) Draw(screen *ebiten.Image, frame Frame) {
	screen.Fill(r.backgroundColor())

	switch {
	case frame.NoFile:
		r.drawCenteredMessage(screen, "no image files")
		return
	case frame.Loading:
		r.drawCenteredMessage(screen, "loading "+filepath.Base(frame.Path)+" ...")
	case frame.ErrMsg != "":
		r.drawErrorImage(screen, frame)
	case frame.Image != nil:
		r.drawImage(screen, frame.Image, frame.Transform)
	}

	r.drawStatusLine(screen, frame)
	if frame.Pixel != nil {
		r.drawPixelOverlay(screen, frame.Pixel)
	}
}

// drawImage places the image so that its center lands at the viewport center
// plus the pan offset, after rotation and scaling.
func (r *Renderer) drawImage(screen *ebiten.Image, img *ebiten.Image, tf Transform) {
	iw, ih := img.Bounds().Dx(), img.Bounds().Dy()
	vw, vh := screen.Bounds().Dx(), screen.Bounds().Dy()

	op := &ebiten.DrawImageOptions{}
	op.Filter = ebiten.FilterLinear
	op.GeoM.Translate(-float64(iw)/2, -float64(ih)/2)
	op.GeoM.Rotate(float64(tf.Rotation) * math.Pi / 180)
	op.GeoM.Scale(tf.Zoom, tf.Zoom)
	op.GeoM.Translate(float64(vw)/2+tf.PanX, float64(vh)/2+tf.PanY)
	screen.DrawImage(img, op)
}

// drawErrorImage shows a generated placeholder for the failed file. The
// placeholder is cached per path since decode errors repeat every frame.
func (r *Renderer) drawErrorImage(screen *ebiten.Image, frame Frame) {
	if r.errorImagePath != frame.Path || r.errorImage == nil {
		if r.errorImage != nil {
			r.errorImage.Deallocate()
		}
		r.errorImage = CreateErrorImage(400, 300, frame.Path, frame.ErrMsg)
		r.errorImagePath = frame.Path
	}

	iw, ih := r.errorImage.Bounds().Dx(), r.errorImage.Bounds().Dy()
	vw, vh := screen.Bounds().Dx(), screen.Bounds().Dy()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(vw-iw)/2, float64(vh-ih)/2)
	screen.DrawImage(r.errorImage, op)
}

func (r *Renderer) drawCenteredMessage(screen *ebiten.Image, msg string) {
	vw, vh := screen.Bounds().Dx(), screen.Bounds().Dy()
	w := float64(len(msg)) * r.statusFont.Size * 0.55
	x := float64(vw)/2 - w/2
	y := float64(vh)/2 - r.statusFont.Size
	DrawFilledRect(screen, x-8, y-6, w+16, r.statusFont.Size*2, bgColorMedium)
	DrawText(screen, msg, r.statusFont, x, y, colorGray)
}

// drawStatusLine writes "path ( W x H ) [ i / n ] zoom%" along the bottom.
func (r *Renderer) drawStatusLine(screen *ebiten.Image, frame Frame) {
	if frame.Total == 0 {
		return
	}

	status := frame.Path
	if frame.ImageW > 0 {
		status += fmt.Sprintf(" ( %d x %d )", frame.ImageW, frame.ImageH)
	}
	status += fmt.Sprintf(" [ %d / %d ]", frame.Index, frame.Total)
	if frame.Image != nil {
		status += fmt.Sprintf(" %d%%", int(math.Round(frame.Transform.Zoom*100)))
	}

	vw, vh := screen.Bounds().Dx(), screen.Bounds().Dy()
	y := float64(vh) - statusBarHeight
	DrawFilledRect(screen, 0, y, float64(vw), statusBarHeight, bgColorMedium)
	DrawText(screen, status, r.statusFont, 6, y+4, colorWhite)
}

// drawPixelOverlay shows the inspected pixel: coordinates, a color swatch,
// the channel values tinted in their own colors and the hex readout.
func (r *Renderer) drawPixelOverlay(screen *ebiten.Image, p *PixelInfo) {
	const pad = 6.0
	const swatch = 14.0
	lineH := r.statusFont.Size + 6

	coords := fmt.Sprintf("( %d, %d )", p.X, p.Y)
	rText := fmt.Sprintf("R %3d", p.R)
	gText := fmt.Sprintf("G %3d", p.G)
	bText := fmt.Sprintf("B %3d", p.B)

	w := 130.0
	h := pad*2 + lineH*3
	DrawFilledRect(screen, 0, 0, w, h, bgColorMedium)

	DrawText(screen, coords, r.statusFont, pad, pad, colorWhite)
	DrawFilledRect(screen, w-pad-swatch, pad, swatch, swatch, color.RGBA{p.R, p.G, p.B, 255})

	y := pad + lineH
	DrawText(screen, rText, r.statusFont, pad, y, colorRed)
	DrawText(screen, gText, r.statusFont, pad+42, y, colorGreen)
	DrawText(screen, bText, r.statusFont, pad+84, y, colorBlue)

	DrawText(screen, pixelColorHex(p), r.statusFont, pad, y+lineH, colorWhite)
}

// pixelColorHex formats the inspected pixel as "#RRGGBB".
func pixelColorHex(p *PixelInfo) string {
	return fmt.Sprintf("#%02X%02X%02X", p.R, p.G, p.B)
}
