package render

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"

	"github.com/golang/freetype/truetype"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/thywilljoshua/doc-to-slides/internal/ai"
	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/extract"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

func newTestRenderer(t *testing.T) *Renderer {
	t.Helper()
	cfg := DefaultConfig()
	cfg.Scale = 0.5
	cfg.JPEGQuality = 70
	r, err := New(cfg, zerolog.Nop())
	require.NoError(t, err)
	return r
}

func pageCount(t *testing.T, doc []byte) int {
	t.Helper()
	n, err := api.PageCount(bytes.NewReader(doc), pdfcpuConf())
	require.NoError(t, err)
	return n
}

var deck = []slides.Slide{
	{Title: "Introduction", Content: []string{"Why this matters.", "What we will cover."}},
	{Title: "Main point", Content: []string{strings.Repeat("A fairly long paragraph that must wrap. ", 20)}},
	{Title: "Conclusion", Content: []string{"Thanks."}},
}

func TestRenderOnePagePerSlide(t *testing.T) {
	r := newTestRenderer(t)
	for _, tpl := range style.Templates() {
		out, err := r.Render(context.Background(), deck, tpl, nil)
		require.NoError(t, err, tpl)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")), tpl)
		assert.Equal(t, len(deck), pageCount(t, out), tpl)
	}
	assert.Zero(t, r.canvases.live.Load())
}

func TestRenderRoundTripFromPlainText(t *testing.T) {
	text, err := extract.Extract([]byte("Intro para.\n\nBody para."), extract.MIMEText)
	require.NoError(t, err)

	gen := ai.GeneratorFunc(func(ctx context.Context, prompt string) (string, error) {
		return `[{"title":"Intro","content":["Intro para."]},{"title":"Body","content":["Body para."]}]`, nil
	})
	synthesized, err := slides.NewSynthesizer(gen).Synthesize(context.Background(), text, style.Modern)
	require.NoError(t, err)

	out, err := newTestRenderer(t).Render(context.Background(), synthesized, style.Modern, nil)
	require.NoError(t, err)
	assert.Equal(t, len(synthesized), pageCount(t, out))
}

func TestRenderEmptyDeck(t *testing.T) {
	_, err := newTestRenderer(t).Render(context.Background(), nil, style.Modern, nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindRender))
	assert.ErrorIs(t, err, ErrEmptyDeck)
}

func TestRenderAbortsOnCaptureFailure(t *testing.T) {
	r := newTestRenderer(t)
	calls := 0
	boom := errors.New("canvas lost")
	r.paintFn = func(img *image.RGBA, s slides.Slide, st style.Resolved) error {
		calls++
		if calls == 2 {
			return boom
		}
		return r.paint(img, s, st)
	}

	out, err := r.Render(context.Background(), deck, style.Corporate, nil)
	require.Error(t, err)
	assert.Nil(t, out)
	assert.True(t, errs.Is(err, errs.KindRender))
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "capture slide 2")
	assert.Equal(t, 2, calls)
	assert.Zero(t, r.canvases.live.Load())
}

func TestRenderRecoversPaintPanic(t *testing.T) {
	r := newTestRenderer(t)
	r.paintFn = func(*image.RGBA, slides.Slide, style.Resolved) error { panic("bad glyph") }

	_, err := r.Render(context.Background(), deck, style.Modern, nil)
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindRender))
	assert.Contains(t, err.Error(), "bad glyph")
	assert.Zero(t, r.canvases.live.Load())
}

func TestRenderHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestRenderer(t).Render(ctx, deck, style.Modern, nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRenderRejectsInvalidOverride(t *testing.T) {
	bad := "not-a-colour"
	_, err := newTestRenderer(t).Render(context.Background(), deck, style.Modern, &style.Override{TextColor: &bad})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalid))

	_, err = newTestRenderer(t).RenderSlidePNG(deck[0], style.Modern, &style.Override{TextColor: &bad})
	require.Error(t, err)
	assert.True(t, errs.Is(err, errs.KindInvalid))
}

func decodePreview(t *testing.T, b []byte) image.Image {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	return img
}

func near(t *testing.T, want color.NRGBA, got color.Color, msg string) {
	t.Helper()
	r, g, b, _ := got.RGBA()
	diff := func(x uint8, y uint32) int {
		d := int(x) - int(y>>8)
		if d < 0 {
			return -d
		}
		return d
	}
	assert.LessOrEqual(t, diff(want.R, r)+diff(want.G, g)+diff(want.B, b), 12, "%s: got %v", msg, got)
}

func TestRenderSlidePNGGeometryAndBackground(t *testing.T) {
	r := newTestRenderer(t)
	w, h := r.canvasSize()

	img := decodePreview(t, mustPreview(t, r, style.Modern, nil))
	assert.Equal(t, image.Rect(0, 0, w, h), img.Bounds())
	near(t, color.NRGBA{0xff, 0xff, 0xff, 0xff}, img.At(w-1, h-1), "modern background")

	img = decodePreview(t, mustPreview(t, r, style.Creative, nil))
	near(t, color.NRGBA{0xff, 0x00, 0x66, 0xff}, img.At(0, 0), "gradient start")
	near(t, color.NRGBA{0x99, 0xff, 0x66, 0xff}, img.At(w-1, h-1), "gradient end")

	img = decodePreview(t, mustPreview(t, r, style.Academic, nil))
	near(t, color.NRGBA{0x33, 0x33, 0x33, 0xff}, img.At(w/2, 1), "academic top rule")

	bg := "#123456"
	img = decodePreview(t, mustPreview(t, r, style.Creative, &style.Override{BackgroundColor: &bg}))
	near(t, color.NRGBA{0x12, 0x34, 0x56, 0xff}, img.At(w-1, h-1), "override background")
	assert.Zero(t, r.canvases.live.Load())
}

func mustPreview(t *testing.T, r *Renderer, tpl style.TemplateID, o *style.Override) []byte {
	t.Helper()
	b, err := r.RenderSlidePNG(slides.Slide{Title: "Hello", Content: []string{"World"}}, tpl, o)
	require.NoError(t, err)
	return b
}

func TestWrapFitsWidth(t *testing.T) {
	fonts, err := loadFonts()
	require.NoError(t, err)
	face := truetype.NewFace(fonts.sans.regular, &truetype.Options{Size: 18, DPI: 72})
	defer face.Close()

	text := "The quick brown fox jumps over the lazy dog " + strings.Repeat("x", 80)
	lines := wrap(face, text, 200)
	require.Greater(t, len(lines), 2)
	for _, l := range lines {
		assert.LessOrEqual(t, font.MeasureString(face, l).Ceil(), 200, l)
	}
	assert.Equal(t, strings.ReplaceAll(text, " ", ""), strings.ReplaceAll(strings.Join(lines, ""), " ", ""))
	assert.Empty(t, wrap(face, "   ", 200))
}

func TestFontPick(t *testing.T) {
	fonts, err := loadFonts()
	require.NoError(t, err)
	assert.Same(t, fonts.mono.regular, fonts.pick(style.FontStack("mono"), false))
	assert.Same(t, fonts.serif.regular, fonts.pick("Georgia, serif", false))
	assert.Same(t, fonts.sans.bold, fonts.pick("Arial, sans-serif", true))
	assert.Same(t, fonts.sans.regular, fonts.pick("", false))
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	bad := DefaultConfig()
	bad.PaddingMM = 200
	assert.Error(t, bad.Validate())
	bad = DefaultConfig()
	bad.Scale = 0
	assert.Error(t, bad.Validate())
	_, err := New(bad, zerolog.Nop())
	assert.Error(t, err)
}
