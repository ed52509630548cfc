package convert

import (
	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/extract"
	"github.com/thywilljoshua/doc-to-slides/internal/render"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

// Upload is a document handed to the pipeline.
type Upload struct {
	Filename string
	MIMEType string
	Data     []byte
	Template style.TemplateID
}

// Options choose which optional stages Run performs after synthesis.
type Options struct {
	// Save stores the deck for OwnerID.
	Save    bool
	OwnerID string
	// Export renders the deck to PDF with CustomStyles applied.
	Export       bool
	CustomStyles *style.Override
}

type Result struct {
	ID       string           `json:"id,omitempty"`
	Title    string           `json:"title"`
	Template style.TemplateID `json:"template"`
	Slides   []slides.Slide   `json:"slides"`
	PDF      []byte           `json:"-"`
}

type Config struct {
	Extractor   *extract.Extractor
	Synthesizer *slides.Synthesizer
	Renderer    *render.Renderer
	Store       store.Repository
	Log         zerolog.Logger
}
