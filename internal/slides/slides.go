// Package slides turns document text into a slide deck through the AI port.
package slides

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/ai"
	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

const (
	// DefaultMaxInputChars is how many characters of the document reach the model.
	DefaultMaxInputChars = 8000

	FallbackTitle   = "Generated Presentation"
	FallbackContent = "Content could not be processed correctly."
)

// Slide is one page of a deck: a heading and its paragraphs.
type Slide struct {
	Title   string   `json:"title"`
	Content []string `json:"content"`
}

// Synthesizer asks a Generator for a deck and validates the reply.
type Synthesizer struct {
	gen      ai.Generator
	maxChars int
	log      zerolog.Logger
}

type Option func(*Synthesizer)

// WithMaxInputChars caps the document characters sent to the model.
func WithMaxInputChars(n int) Option {
	return func(s *Synthesizer) {
		if n > 0 {
			s.maxChars = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Synthesizer) { s.log = log.With().Str("component", "slides").Logger() }
}

func NewSynthesizer(gen ai.Generator, opts ...Option) *Synthesizer {
	if gen == nil {
		gen = ai.Noop{}
	}
	s := &Synthesizer{gen: gen, maxChars: DefaultMaxInputChars, log: zerolog.Nop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Synthesize makes exactly one Generate call. A reply that is not a valid
// deck yields the single fallback slide; only a failed call is an error.
func (s *Synthesizer) Synthesize(ctx context.Context, text string, template style.TemplateID) ([]Slide, error) {
	prompt := Prompt(truncate(text, s.maxChars), template)
	raw, err := s.gen.Generate(ctx, prompt)
	if err != nil {
		return nil, errs.Synthesis("generate slides", err)
	}
	deck, err := Parse(raw)
	if err != nil {
		s.log.Warn().Err(err).Int("reply_bytes", len(raw)).Msg("model reply is not a slide deck, using fallback")
		return Fallback(raw), nil
	}
	s.log.Debug().Int("slides", len(deck)).Str("template", template.String()).Msg("synthesized deck")
	return deck, nil
}

// Prompt is the instruction sent to the model.
func Prompt(text string, template style.TemplateID) string {
	return "Create a presentation based on the following content. " +
		"Format your response as a JSON array of slide objects, where each slide has a \"title\" and \"content\" property. " +
		"The \"content\" property should be an array of paragraphs. " +
		"Make sure the presentation is well-structured with an introduction, main points, and conclusion. " +
		fmt.Sprintf("Use the %s style for tone and formatting.\n\n", style.Parse(string(template))) +
		"Content: " + text
}

var errNotDeck = errors.New("reply is not a JSON array of slides")

type wireSlide struct {
	Title   *string   `json:"title"`
	Content *[]string `json:"content"`
}

// Parse validates raw as a non-empty JSON array of {title, content[]}
// objects. Code fences and chatter around the array are tolerated.
func Parse(raw string) ([]Slide, error) {
	body := ai.StripCodeFences(raw)
	deck, err := decode(body)
	if err == nil {
		return deck, nil
	}
	if arr := ai.FindJSONArray(body); arr != "" && arr != body {
		if deck, err2 := decode(arr); err2 == nil {
			return deck, nil
		}
	}
	return nil, err
}

func decode(s string) ([]Slide, error) {
	var items []wireSlide
	if err := json.Unmarshal([]byte(s), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", errNotDeck, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: empty array", errNotDeck)
	}
	deck := make([]Slide, len(items))
	for i, it := range items {
		if it.Title == nil || it.Content == nil {
			return nil, fmt.Errorf("%w: slide %d lacks title or content", errNotDeck, i+1)
		}
		deck[i] = Slide{Title: *it.Title, Content: append([]string{}, *it.Content...)}
	}
	return deck, nil
}

// Fallback is the one-slide deck used when the reply cannot be parsed.
// Its content is the reply's first blank-line-delimited block, or the
// placeholder when that block is empty.
func Fallback(raw string) []Slide {
	first, _, _ := strings.Cut(raw, "\n\n")
	if first == "" {
		first = FallbackContent
	}
	return []Slide{{Title: FallbackTitle, Content: []string{first}}}
}

func truncate(s string, n int) string {
	if n <= 0 {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
