// Package style resolves slide styling from a template preset and the
// user's partial overrides.
package style

import "strings"

// TemplateID names one of the built-in visual presets.
type TemplateID string

const (
	Modern    TemplateID = "modern"
	Corporate TemplateID = "corporate"
	Creative  TemplateID = "creative"
	Academic  TemplateID = "academic"
)

// Templates lists the presets in display order.
func Templates() []TemplateID {
	return []TemplateID{Modern, Corporate, Creative, Academic}
}

// Parse maps s to a template. Unknown or empty names fall back to Modern.
func Parse(s string) TemplateID {
	t := TemplateID(strings.ToLower(strings.TrimSpace(s)))
	if t.Valid() {
		return t
	}
	return Modern
}

// Valid reports whether t is one of the built-in presets.
func (t TemplateID) Valid() bool {
	switch t {
	case Modern, Corporate, Creative, Academic:
		return true
	}
	return false
}

func (t TemplateID) String() string { return string(t) }

// FontStack maps the customiser's font choice (sans, serif, mono) to a CSS
// font stack. Any other choice, including "default", yields "".
func FontStack(kind string) string {
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case "sans":
		return "Arial, Helvetica, sans-serif"
	case "serif":
		return "Georgia, 'Times New Roman', serif"
	case "mono":
		return "'Courier New', monospace"
	}
	return ""
}
