package style

const (
	creativeGradientStart = "#f06"
	creativeGradientEnd   = "#9f6"
	// Overrides carry no angle; they follow the creative preset's direction.
	defaultGradientAngle = 135
)

// Defaults returns the documented default style of t. Unknown templates get
// the Modern defaults.
func Defaults(t TemplateID) Resolved {
	switch Parse(string(t)) {
	case Corporate:
		return Resolved{
			Slide: SlideStyle{
				FontFamily: "Georgia, serif",
				Background: Solid("#f5f5f5"),
				Color:      "#333333",
			},
			Title: TitleStyle{
				FontSize:      32,
				Bold:          true,
				Color:         "#003366",
				MarginBottom:  20,
				BorderBottom:  &Border{Width: 2, Color: "#003366"},
				PaddingBottom: 10,
			},
			Content: ContentStyle{FontSize: 18, LineHeight: 1.5, MarginBottom: 15, Color: "#333333"},
		}
	case Creative:
		return Resolved{
			Slide: SlideStyle{
				FontFamily: "Helvetica, sans-serif",
				Background: Gradient(LinearGradient{Angle: defaultGradientAngle, Start: creativeGradientStart, End: creativeGradientEnd}),
				Color:      "#ffffff",
			},
			Title: TitleStyle{
				FontSize:     36,
				Bold:         true,
				Color:        "#ffffff",
				MarginBottom: 20,
				TextShadow:   &Shadow{OffsetX: 2, OffsetY: 2, Blur: 4, Color: "rgba(0,0,0,0.5)"},
			},
			Content: ContentStyle{FontSize: 18, LineHeight: 1.5, MarginBottom: 15, Color: "#ffffff"},
		}
	case Academic:
		return Resolved{
			Slide: SlideStyle{
				FontFamily: "Georgia, serif",
				Background: Solid("#ffffff"),
				Color:      "#333333",
				BorderTop:  &Border{Width: 16, Color: "#333333"},
			},
			Title:   TitleStyle{FontSize: 30, Bold: true, Color: "#333333", MarginBottom: 20},
			Content: ContentStyle{FontSize: 18, LineHeight: 1.6, MarginBottom: 15, Color: "#333333"},
		}
	default:
		return Resolved{
			Slide: SlideStyle{
				FontFamily: "Arial, sans-serif",
				Background: Solid("#ffffff"),
				Color:      "#333333",
			},
			Title:   TitleStyle{FontSize: 32, Bold: true, Color: "#333333", MarginBottom: 20},
			Content: ContentStyle{FontSize: 18, LineHeight: 1.5, MarginBottom: 15, Color: "#555555"},
		}
	}
}

// Resolve layers o over the defaults of t. A gradient override wins over a
// background colour override; either one replaces the template background.
func Resolve(t TemplateID, o *Override) Resolved {
	r := Defaults(t)
	if o.IsZero() {
		return r
	}

	switch {
	case o.Gradient != nil:
		r.Slide.Background = Gradient(LinearGradient{
			Angle: defaultGradientAngle,
			Start: o.Gradient.Start,
			End:   o.Gradient.End,
		})
	case str(o.BackgroundColor) != "":
		r.Slide.Background = Solid(str(o.BackgroundColor))
	}

	if c := str(o.TextColor); c != "" {
		r.Slide.Color = c
		r.Title.Color = c
		r.Content.Color = c
	}
	if f := str(o.FontFamily); f != "" {
		r.Slide.FontFamily = f
	}
	if o.FontSize != nil && *o.FontSize > 0 {
		r.Content.FontSize = *o.FontSize
	}
	return r
}
