package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
	"sync"
	"sync/atomic"

	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// canvasPool hands out slide-sized RGBA canvases. Every acquire must be
// paired with a release.
type canvasPool struct {
	w, h int
	pool sync.Pool
	live atomic.Int64
}

func newCanvasPool(w, h int) *canvasPool {
	return &canvasPool{w: w, h: h}
}

func (p *canvasPool) acquire() *image.RGBA {
	p.live.Add(1)
	if v, ok := p.pool.Get().(*image.RGBA); ok {
		return v
	}
	return image.NewRGBA(image.Rect(0, 0, p.w, p.h))
}

func (p *canvasPool) release(img *image.RGBA) {
	p.live.Add(-1)
	p.pool.Put(img)
}

// overWhite flattens c onto an opaque white page.
func overWhite(c color.NRGBA) color.RGBA {
	a := uint32(c.A)
	mix := func(v uint8) uint8 { return uint8((uint32(v)*a + 255*(255-a) + 127) / 255) }
	return color.RGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: 0xff}
}

func fillRect(img *image.RGBA, r image.Rectangle, c color.NRGBA) {
	draw.Draw(img, r.Intersect(img.Bounds()), image.NewUniform(c), image.Point{}, draw.Over)
}

func paintBackground(img *image.RGBA, bg style.Background) error {
	if g := bg.LinearGradient(); g != nil {
		return paintGradient(img, *g)
	}
	c, err := style.ParseColor(bg.Color())
	if err != nil {
		return err
	}
	draw.Draw(img, img.Bounds(), image.NewUniform(overWhite(c)), image.Point{}, draw.Src)
	return nil
}

// paintGradient follows CSS linear-gradient geometry: 0deg points up and
// angles turn clockwise; the gradient line spans the corners.
func paintGradient(img *image.RGBA, g style.LinearGradient) error {
	c0, err := style.ParseColor(g.Start)
	if err != nil {
		return err
	}
	c1, err := style.ParseColor(g.End)
	if err != nil {
		return err
	}
	b := img.Bounds()
	w, h := float64(b.Dx()), float64(b.Dy())
	rad := g.Angle * math.Pi / 180
	dx, dy := math.Sin(rad), -math.Cos(rad)
	length := math.Abs(w*dx) + math.Abs(h*dy)
	if length == 0 {
		length = 1
	}
	for y := 0; y < b.Dy(); y++ {
		fy := (float64(y) + 0.5 - h/2) * dy
		for x := 0; x < b.Dx(); x++ {
			t := ((float64(x)+0.5-w/2)*dx+fy)/length + 0.5
			img.SetRGBA(b.Min.X+x, b.Min.Y+y, overWhite(lerp(c0, c1, t)))
		}
	}
	return nil
}

func lerp(a, b color.NRGBA, t float64) color.NRGBA {
	t = math.Max(0, math.Min(1, t))
	mix := func(x, y uint8) uint8 { return uint8(math.Round(float64(x) + (float64(y)-float64(x))*t)) }
	return color.NRGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}
