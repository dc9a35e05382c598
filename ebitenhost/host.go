// Package ebitenhost is a reference host surface for tapmap built on
// [Ebitengine]. It displays the most recent rendered raster, pulses a
// translucent overlay while the surface is loading, and feeds native cursor
// clicks back through the surface — useful when developing content without
// a live observer process.
//
// [Ebitengine]: https://ebitengine.org
package ebitenhost

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"

	_ "image/jpeg"
	_ "image/png"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
	xdraw "golang.org/x/image/draw"

	"github.com/pixelglue/tapmap"
)

// Loading overlay fade parameters.
const (
	overlayAlphaMin = 0.25
	overlayAlphaMax = 0.7
	fadeDuration    = 0.6 // seconds per fade direction
)

// View displays a tapmap surface's raster in an Ebitengine window. It
// implements both ebiten.Game and tapmap.Publisher:
//
//	surface := tapmap.NewSurface(cfg)
//	view := ebitenhost.New(surface, 640, 480)
//	surface.SetPublisher(view)
//	// ... surface.SetTree(...) ...
//	ebiten.RunGame(view)
type View struct {
	surface       *tapmap.Surface
	width, height int

	mu      sync.Mutex
	frame   *ebiten.Image
	loading bool

	fade         *gween.Tween
	fadingOut    bool
	overlayAlpha float32
	overlay      *ebiten.Image
	prevDown     bool
}

// New creates a view of the given pixel size for surface.
func New(surface *tapmap.Surface, width, height int) *View {
	return &View{
		surface:      surface,
		width:        width,
		height:       height,
		fade:         gween.New(overlayAlphaMin, overlayAlphaMax, fadeDuration, ease.InOutQuad),
		overlayAlpha: overlayAlphaMin,
	}
}

// Publish implements tapmap.Publisher. The markup itself is not
// interpreted — this host shows the raster the surface's Renderer produced
// from it, rescaled to the window.
func (v *View) Publish(markup string, loading bool) {
	raster := v.surface.Image()

	var frame *ebiten.Image
	if raster != "" {
		img, err := DecodeRaster(raster)
		if err != nil {
			_, _ = fmt.Fprintf(os.Stderr, "[ebitenhost] %v\n", err)
		} else {
			frame = ebiten.NewImageFromImage(ScaleTo(img, v.width, v.height))
		}
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	v.loading = loading
	if frame != nil {
		v.frame = frame
	}
}

// Update implements ebiten.Game: it forwards fresh left-button presses to
// the surface and advances the loading fade.
func (v *View) Update() error {
	down := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	if down && !v.prevDown {
		x, y := ebiten.CursorPosition()
		v.surface.Click(x, y)
	}
	v.prevDown = down

	v.mu.Lock()
	loading := v.loading
	v.mu.Unlock()

	if loading {
		dt := float32(1.0 / float64(ebiten.TPS()))
		alpha, finished := v.fade.Update(dt)
		v.overlayAlpha = alpha
		if finished {
			v.fadingOut = !v.fadingOut
			if v.fadingOut {
				v.fade = gween.New(overlayAlphaMax, overlayAlphaMin, fadeDuration, ease.InOutQuad)
			} else {
				v.fade = gween.New(overlayAlphaMin, overlayAlphaMax, fadeDuration, ease.InOutQuad)
			}
		}
	}
	return nil
}

// Draw implements ebiten.Game.
func (v *View) Draw(screen *ebiten.Image) {
	v.mu.Lock()
	frame := v.frame
	loading := v.loading
	v.mu.Unlock()

	if frame != nil {
		screen.DrawImage(frame, nil)
	}
	if loading {
		if v.overlay == nil {
			v.overlay = ebiten.NewImage(1, 1)
			v.overlay.Fill(color.White)
		}
		op := &ebiten.DrawImageOptions{}
		op.GeoM.Scale(float64(v.width), float64(v.height))
		op.ColorScale.Scale(0, 0, 0, v.overlayAlpha)
		screen.DrawImage(v.overlay, op)
	}
}

// Layout implements ebiten.Game.
func (v *View) Layout(outsideWidth, outsideHeight int) (int, int) {
	return v.width, v.height
}

// DecodeRaster decodes a base64-encoded image as produced by a
// tapmap.Renderer. PNG and JPEG payloads are recognized.
func DecodeRaster(b64 string) (image.Image, error) {
	raw, err := base64.StdEncoding.DecodeString(b64)
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("decode raster: %w", err)
	}
	return img, nil
}

// ScaleTo resamples img to width by height with Catmull-Rom interpolation.
func ScaleTo(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	return dst
}
