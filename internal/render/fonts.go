package render

import (
	"fmt"
	"strings"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

type face struct {
	regular, bold *truetype.Font
}

// fontBook maps CSS font stacks onto the embedded Go fonts.
type fontBook struct {
	sans, serif, mono face
}

func loadFonts() (*fontBook, error) {
	parse := func(name string, ttf []byte) (*truetype.Font, error) {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", name, err)
		}
		return f, nil
	}
	var (
		b   fontBook
		err error
	)
	for _, ld := range []struct {
		dst  **truetype.Font
		name string
		ttf  []byte
	}{
		{&b.sans.regular, "goregular", goregular.TTF},
		{&b.sans.bold, "gobold", gobold.TTF},
		{&b.serif.regular, "gomedium", gomedium.TTF},
		{&b.mono.regular, "gomono", gomono.TTF},
		{&b.mono.bold, "gomonobold", gomonobold.TTF},
	} {
		if *ld.dst, err = parse(ld.name, ld.ttf); err != nil {
			return nil, err
		}
	}
	b.serif.bold = b.sans.bold
	return &b, nil
}

// pick chooses a font for a CSS font-family list.
func (b *fontBook) pick(family string, bold bool) *truetype.Font {
	fam := strings.ToLower(family)
	set := b.sans
	switch {
	case strings.Contains(fam, "mono") || strings.Contains(fam, "courier"):
		set = b.mono
	case strings.Contains(strings.ReplaceAll(fam, "sans-serif", ""), "serif"),
		strings.Contains(fam, "georgia"), strings.Contains(fam, "times"):
		set = b.serif
	}
	if bold {
		return set.bold
	}
	return set.regular
}
