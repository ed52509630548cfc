// Package render rasterises slides and assembles them into a PDF, one
// full-bleed image page per slide.
package render

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"math"
	"sync"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// CSS pixels per millimetre at 96 dpi.
const cssPxPerMM = 96 / 25.4

var ErrEmptyDeck = errors.New("presentation has no slides")

// Config fixes the page geometry and raster quality of exports.
type Config struct {
	PageWidthMM  float64
	PageHeightMM float64
	PaddingMM    float64
	// Scale multiplies the 96 dpi CSS pixel grid.
	Scale       float64
	JPEGQuality int
}

// DefaultConfig is A4 landscape with 20mm padding at twice CSS resolution.
func DefaultConfig() Config {
	return Config{PageWidthMM: 297, PageHeightMM: 210, PaddingMM: 20, Scale: 2, JPEGQuality: 92}
}

func (c Config) Validate() error {
	switch {
	case c.PageWidthMM <= 0 || c.PageHeightMM <= 0:
		return fmt.Errorf("page size must be positive, got %gx%g mm", c.PageWidthMM, c.PageHeightMM)
	case c.PaddingMM < 0 || 2*c.PaddingMM >= math.Min(c.PageWidthMM, c.PageHeightMM):
		return fmt.Errorf("padding %g mm does not fit the page", c.PaddingMM)
	case c.Scale <= 0:
		return fmt.Errorf("scale must be positive, got %g", c.Scale)
	case c.JPEGQuality < 1 || c.JPEGQuality > 100:
		return fmt.Errorf("jpeg quality must be within 1..100, got %d", c.JPEGQuality)
	}
	return nil
}

type painter func(*image.RGBA, slides.Slide, style.Resolved) error

type Renderer struct {
	cfg      Config
	fonts    *fontBook
	canvases *canvasPool
	paintFn  painter
	log      zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) (*Renderer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	fonts, err := loadFonts()
	if err != nil {
		return nil, err
	}
	r := &Renderer{cfg: cfg, fonts: fonts, log: log.With().Str("component", "render").Logger()}
	w, h := r.canvasSize()
	r.canvases = newCanvasPool(w, h)
	r.paintFn = r.paint
	return r, nil
}

func (r *Renderer) pxPerMM() float64 { return cssPxPerMM * r.cfg.Scale }

func (r *Renderer) cssToPx(v float64) int { return int(math.Round(v * r.cfg.Scale)) }

func (r *Renderer) canvasSize() (int, int) {
	return int(math.Round(r.cfg.PageWidthMM * r.pxPerMM())), int(math.Round(r.cfg.PageHeightMM * r.pxPerMM()))
}

// Render exports deck as a PDF with one page per slide, in order. Any slide
// that fails to capture aborts the export; no partial document is returned.
func (r *Renderer) Render(ctx context.Context, deck []slides.Slide, template style.TemplateID, o *style.Override) ([]byte, error) {
	if len(deck) == 0 {
		return nil, errs.Render("render", ErrEmptyDeck)
	}
	if err := o.Validate(); err != nil {
		return nil, errs.Invalid("render", err)
	}
	st := style.Resolve(template, o)

	doc := r.newDocument()
	for i, s := range deck {
		if err := ctx.Err(); err != nil {
			return nil, errs.Render("render", err)
		}
		img, err := r.capture(s, st, encodeJPEG(r.cfg.JPEGQuality))
		if err != nil {
			return nil, errs.Render(fmt.Sprintf("capture slide %d", i+1), err)
		}
		if err := r.addPage(doc, i, img); err != nil {
			return nil, errs.Render(fmt.Sprintf("add slide %d", i+1), err)
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, errs.Render("write pdf", err)
	}
	out := buf.Bytes()
	if err := verifyPageCount(out, len(deck)); err != nil {
		return nil, errs.Render("verify pdf", err)
	}
	r.log.Debug().Int("slides", len(deck)).Int("bytes", len(out)).Str("template", style.Parse(string(template)).String()).Msg("exported presentation")
	return out, nil
}

// RenderSlidePNG rasterises a single slide for previews.
func (r *Renderer) RenderSlidePNG(s slides.Slide, template style.TemplateID, o *style.Override) ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, errs.Invalid("preview", err)
	}
	b, err := r.capture(s, style.Resolve(template, o), encodePNG)
	if err != nil {
		return nil, errs.Render("preview", err)
	}
	return b, nil
}

type encoder func(*bytes.Buffer, image.Image) error

func encodeJPEG(quality int) encoder {
	return func(buf *bytes.Buffer, img image.Image) error {
		return jpeg.Encode(buf, img, &jpeg.Options{Quality: quality})
	}
}

func encodePNG(buf *bytes.Buffer, img image.Image) error { return png.Encode(buf, img) }

// capture paints s on a pooled canvas and encodes it. The canvas goes back
// to the pool whatever happens, panics included.
func (r *Renderer) capture(s slides.Slide, st style.Resolved, enc encoder) (out []byte, err error) {
	img := r.canvases.acquire()
	defer r.canvases.release(img)
	defer func() {
		if rec := recover(); rec != nil {
			out, err = nil, fmt.Errorf("capture panicked: %v", rec)
		}
	}()

	if err := r.paintFn(img, s, st); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := enc(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (r *Renderer) newDocument() *gofpdf.Fpdf {
	w, h := r.cfg.PageWidthMM, r.cfg.PageHeightMM
	it := &gofpdf.InitType{OrientationStr: "P", UnitStr: "mm", Size: gofpdf.SizeType{Wd: w, Ht: h}}
	if w > h {
		// gofpdf swaps the sides for landscape.
		it.OrientationStr = "L"
		it.Size = gofpdf.SizeType{Wd: h, Ht: w}
	}
	doc := gofpdf.NewCustom(it)
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	return doc
}

func (r *Renderer) addPage(doc *gofpdf.Fpdf, i int, jpg []byte) error {
	name := fmt.Sprintf("slide-%d", i+1)
	opts := gofpdf.ImageOptions{ImageType: "JPG"}
	doc.AddPage()
	if info := doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(jpg)); info == nil {
		return fmt.Errorf("register image: %w", doc.Error())
	}
	doc.ImageOptions(name, 0, 0, r.cfg.PageWidthMM, r.cfg.PageHeightMM, false, opts, 0, "")
	return doc.Error()
}

var pdfcpuConf = sync.OnceValue(func() *model.Configuration {
	// Keep pdfcpu from creating a config directory under the user's home.
	model.ConfigPath = "disable"
	return model.NewDefaultConfiguration()
})

func verifyPageCount(doc []byte, want int) error {
	n, err := api.PageCount(bytes.NewReader(doc), pdfcpuConf())
	if err != nil {
		return err
	}
	if n != want {
		return fmt.Errorf("document has %d pages, want %d", n, want)
	}
	return nil
}
