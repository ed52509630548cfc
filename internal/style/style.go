package style

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Border is a solid rule drawn along one edge. Width is in CSS pixels.
type Border struct {
	Width float64 `json:"width"`
	Color string  `json:"color"`
}

// Shadow is a text shadow. Offsets and blur are in CSS pixels.
type Shadow struct {
	OffsetX float64 `json:"offsetX"`
	OffsetY float64 `json:"offsetY"`
	Blur    float64 `json:"blur"`
	Color   string  `json:"color"`
}

// LinearGradient runs from Start to End along Angle degrees (CSS convention:
// 90 is left to right, 135 is top-left to bottom-right).
type LinearGradient struct {
	Angle float64 `json:"angle"`
	Start string  `json:"start"`
	End   string  `json:"end"`
}

// Background holds either a solid colour or a gradient, never both.
// Build one with Solid or Gradient.
type Background struct {
	color    string
	gradient *LinearGradient
}

func Solid(color string) Background { return Background{color: color} }

func Gradient(g LinearGradient) Background { return Background{gradient: &g} }

// Color returns the solid colour, or "" for a gradient background.
func (b Background) Color() string { return b.color }

// LinearGradient returns the gradient, or nil for a solid background.
func (b Background) LinearGradient() *LinearGradient {
	if b.gradient == nil {
		return nil
	}
	g := *b.gradient
	return &g
}

func (b Background) IsGradient() bool { return b.gradient != nil }

// CSS renders the background as a CSS value.
func (b Background) CSS() string {
	if b.gradient != nil {
		return fmt.Sprintf("linear-gradient(%gdeg, %s, %s)", b.gradient.Angle, b.gradient.Start, b.gradient.End)
	}
	return b.color
}

type backgroundJSON struct {
	Color    string          `json:"backgroundColor,omitempty"`
	Gradient *LinearGradient `json:"gradient,omitempty"`
}

func (b Background) MarshalJSON() ([]byte, error) {
	return json.Marshal(backgroundJSON{Color: b.color, Gradient: b.gradient})
}

func (b *Background) UnmarshalJSON(data []byte) error {
	var v backgroundJSON
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	if v.Gradient != nil {
		*b = Gradient(*v.Gradient)
		return nil
	}
	*b = Solid(v.Color)
	return nil
}

// SlideStyle is the container styling of a slide.
type SlideStyle struct {
	FontFamily string     `json:"fontFamily"`
	Background Background `json:"background"`
	Color      string     `json:"color"`
	BorderTop  *Border    `json:"borderTop,omitempty"`
}

// TitleStyle styles the slide heading. Sizes are CSS pixels.
type TitleStyle struct {
	FontSize      float64 `json:"fontSize"`
	Bold          bool    `json:"bold"`
	Color         string  `json:"color"`
	MarginBottom  float64 `json:"marginBottom"`
	BorderBottom  *Border `json:"borderBottom,omitempty"`
	PaddingBottom float64 `json:"paddingBottom,omitempty"`
	TextShadow    *Shadow `json:"textShadow,omitempty"`
}

// ContentStyle styles body paragraphs. LineHeight is a multiplier of FontSize.
type ContentStyle struct {
	FontSize     float64 `json:"fontSize"`
	LineHeight   float64 `json:"lineHeight"`
	MarginBottom float64 `json:"marginBottom"`
	Color        string  `json:"color"`
}

// Resolved is a fully populated style used by preview and export alike.
type Resolved struct {
	Slide   SlideStyle   `json:"slide"`
	Title   TitleStyle   `json:"title"`
	Content ContentStyle `json:"content"`
}

// GradientOverride is the user-facing gradient shape.
type GradientOverride struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Override is a partial customisation layered on a template. Nil fields
// keep the template default. Empty strings and non-positive sizes count as
// unset.
type Override struct {
	BackgroundColor *string           `json:"backgroundColor,omitempty"`
	TextColor       *string           `json:"textColor,omitempty"`
	FontFamily      *string           `json:"fontFamily,omitempty"`
	FontSize        *float64          `json:"fontSize,omitempty"`
	Gradient        *GradientOverride `json:"gradient,omitempty"`
}

// IsZero reports whether o changes nothing.
func (o *Override) IsZero() bool {
	if o == nil {
		return true
	}
	return str(o.BackgroundColor) == "" && str(o.TextColor) == "" && str(o.FontFamily) == "" &&
		(o.FontSize == nil || *o.FontSize <= 0) && o.Gradient == nil
}

// Validate checks that every colour in o parses.
func (o *Override) Validate() error {
	if o == nil {
		return nil
	}
	for name, v := range map[string]*string{"backgroundColor": o.BackgroundColor, "textColor": o.TextColor} {
		if s := str(v); s != "" {
			if _, err := ParseColor(s); err != nil {
				return fmt.Errorf("%s: %w", name, err)
			}
		}
	}
	if o.Gradient != nil {
		if _, err := ParseColor(o.Gradient.Start); err != nil {
			return fmt.Errorf("gradient.start: %w", err)
		}
		if _, err := ParseColor(o.Gradient.End); err != nil {
			return fmt.Errorf("gradient.end: %w", err)
		}
	}
	if o.FontSize != nil && *o.FontSize > 200 {
		return fmt.Errorf("fontSize: %g is too large", *o.FontSize)
	}
	return nil
}

func str(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
