package render

import (
	"image"
	"image/color"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// Browsers lay out headings with line-height "normal", roughly 1.2.
const titleLineHeight = 1.2

type block struct {
	font       *truetype.Font
	size       float64 // canvas pixels
	lineHeight int
	color      color.NRGBA
	shadow     *shadow
}

type shadow struct {
	dx, dy int
	color  color.NRGBA
}

// paint draws one slide onto img the way the preview lays it out: top
// border, padding, title block, then paragraphs.
func (r *Renderer) paint(img *image.RGBA, s slides.Slide, st style.Resolved) error {
	if err := paintBackground(img, st.Slide.Background); err != nil {
		return err
	}
	b := img.Bounds()
	px := r.cssToPx

	y := b.Min.Y
	if bt := st.Slide.BorderTop; bt != nil && bt.Width > 0 {
		c, err := style.ParseColor(bt.Color)
		if err != nil {
			return err
		}
		fillRect(img, image.Rect(b.Min.X, y, b.Max.X, y+px(bt.Width)), c)
		y += px(bt.Width)
	}
	pad := int(math.Round(r.cfg.PaddingMM * r.pxPerMM()))
	x := b.Min.X + pad
	maxW := b.Dx() - 2*pad
	y += pad

	title, err := r.titleBlock(st)
	if err != nil {
		return err
	}
	y = r.drawBlock(img, title, s.Title, x, y, maxW)
	y += px(st.Title.PaddingBottom)
	if bb := st.Title.BorderBottom; bb != nil && bb.Width > 0 {
		c, err := style.ParseColor(bb.Color)
		if err != nil {
			return err
		}
		fillRect(img, image.Rect(x, y, x+maxW, y+px(bb.Width)), c)
		y += px(bb.Width)
	}
	y += px(st.Title.MarginBottom)

	body, err := r.contentBlock(st)
	if err != nil {
		return err
	}
	for _, para := range s.Content {
		y = r.drawBlock(img, body, para, x, y, maxW)
		y += px(st.Content.MarginBottom)
	}
	return nil
}

func (r *Renderer) titleBlock(st style.Resolved) (block, error) {
	c, err := style.ParseColor(firstNonEmpty(st.Title.Color, st.Slide.Color))
	if err != nil {
		return block{}, err
	}
	size := st.Title.FontSize * r.cfg.Scale
	blk := block{
		font:       r.fonts.pick(st.Slide.FontFamily, st.Title.Bold),
		size:       size,
		lineHeight: int(math.Round(size * titleLineHeight)),
		color:      c,
	}
	if ts := st.Title.TextShadow; ts != nil {
		sc, err := style.ParseColor(ts.Color)
		if err != nil {
			return block{}, err
		}
		blk.shadow = &shadow{dx: r.cssToPx(ts.OffsetX), dy: r.cssToPx(ts.OffsetY), color: sc}
	}
	return blk, nil
}

func (r *Renderer) contentBlock(st style.Resolved) (block, error) {
	c, err := style.ParseColor(firstNonEmpty(st.Content.Color, st.Slide.Color))
	if err != nil {
		return block{}, err
	}
	size := st.Content.FontSize * r.cfg.Scale
	lh := st.Content.LineHeight
	if lh <= 0 {
		lh = titleLineHeight
	}
	return block{
		font:       r.fonts.pick(st.Slide.FontFamily, false),
		size:       size,
		lineHeight: int(math.Round(size * lh)),
		color:      c,
	}, nil
}

// drawBlock wraps text to maxW and draws it from top y. It returns the y
// below the last line. Text past the canvas edge is clipped.
func (r *Renderer) drawBlock(img *image.RGBA, blk block, text string, x, y, maxW int) int {
	face := truetype.NewFace(blk.font, &truetype.Options{Size: blk.size, DPI: 72, Hinting: font.HintingFull})
	defer face.Close()

	m := face.Metrics()
	lead := (blk.lineHeight - (m.Ascent + m.Descent).Ceil()) / 2

	c := freetype.NewContext()
	c.SetDPI(72)
	c.SetFont(blk.font)
	c.SetFontSize(blk.size)
	c.SetHinting(font.HintingFull)
	c.SetClip(img.Bounds())
	c.SetDst(img)

	for _, line := range wrap(face, text, maxW) {
		baseline := y + lead + m.Ascent.Ceil()
		if blk.shadow != nil {
			c.SetSrc(image.NewUniform(blk.shadow.color))
			c.DrawString(line, freetype.Pt(x+blk.shadow.dx, baseline+blk.shadow.dy))
		}
		c.SetSrc(image.NewUniform(blk.color))
		c.DrawString(line, freetype.Pt(x, baseline))
		y += blk.lineHeight
	}
	return y
}

// wrap breaks s into lines no wider than maxW, splitting on whitespace and
// falling back to rune boundaries for words wider than a line.
func wrap(face font.Face, s string, maxW int) []string {
	var lines []string
	cur := ""
	for _, w := range strings.Fields(s) {
		for w != "" && font.MeasureString(face, w).Ceil() > maxW {
			head, tail := splitToWidth(face, w, maxW)
			if cur != "" {
				lines = append(lines, cur)
				cur = ""
			}
			lines = append(lines, head)
			w = tail
		}
		if w == "" {
			continue
		}
		if cur == "" {
			cur = w
			continue
		}
		if cand := cur + " " + w; font.MeasureString(face, cand).Ceil() <= maxW {
			cur = cand
		} else {
			lines = append(lines, cur)
			cur = w
		}
	}
	if cur != "" {
		lines = append(lines, cur)
	}
	return lines
}

// splitToWidth returns the longest prefix of w (at least one rune) that
// fits in maxW, and the rest.
func splitToWidth(face font.Face, w string, maxW int) (string, string) {
	runes := []rune(w)
	n := 1
	for n < len(runes) && font.MeasureString(face, string(runes[:n+1])).Ceil() <= maxW {
		n++
	}
	return string(runes[:n]), string(runes[n:])
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
