// Package convert runs the document to slides pipeline and the
// owner-scoped presentation operations on top of it.
package convert

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/errs"
	"github.com/thywilljoshua/doc-to-slides/internal/extract"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
	"github.com/thywilljoshua/doc-to-slides/internal/style"
)

var ErrNoOwner = errors.New("owner id is required")

type Service struct {
	cfg Config
	log zerolog.Logger
}

func New(cfg Config) *Service {
	if cfg.Extractor == nil {
		cfg.Extractor = extract.New(cfg.Log)
	}
	if cfg.Synthesizer == nil {
		cfg.Synthesizer = slides.NewSynthesizer(nil, slides.WithLogger(cfg.Log))
	}
	return &Service{cfg: cfg, log: cfg.Log.With().Str("component", "convert").Logger()}
}

// Extract detects the upload's type and returns its text and the title
// derived from the file name.
func (s *Service) Extract(up Upload) (title, text, mimeType string, err error) {
	mimeType, err = extract.DetectType(up.Filename, up.MIMEType)
	if err != nil {
		return "", "", "", errs.Extraction("detect type", err)
	}
	text, err = s.cfg.Extractor.Extract(up.Data, mimeType)
	if err != nil {
		return "", "", "", err
	}
	return extract.TitleFromFilename(up.Filename), text, mimeType, nil
}

// Generate runs extraction then synthesis. Each stage finishes before the
// next starts.
func (s *Service) Generate(ctx context.Context, up Upload) (Result, error) {
	title, text, mimeType, err := s.Extract(up)
	if err != nil {
		return Result{}, err
	}
	tpl := style.Parse(string(up.Template))
	deck, err := s.cfg.Synthesizer.Synthesize(ctx, text, tpl)
	if err != nil {
		return Result{}, err
	}
	s.log.Info().
		Str("file", up.Filename).
		Str("mime", mimeType).
		Int("chars", len(text)).
		Int("slides", len(deck)).
		Str("template", tpl.String()).
		Msg("generated slides")
	return Result{Title: title, Template: tpl, Slides: deck}, nil
}

// Run is the whole pipeline: generate, then optionally save and export.
func (s *Service) Run(ctx context.Context, up Upload, opts Options) (Result, error) {
	res, err := s.Generate(ctx, up)
	if err != nil {
		return Result{}, err
	}
	if opts.Save {
		p := &store.Presentation{
			Title:        res.Title,
			Template:     res.Template,
			CustomStyles: opts.CustomStyles,
			Slides:       res.Slides,
			OwnerID:      opts.OwnerID,
		}
		id, err := s.Save(ctx, p)
		if err != nil {
			return Result{}, err
		}
		res.ID = id
	}
	if opts.Export {
		pdf, err := s.Render(ctx, res.Slides, res.Template, opts.CustomStyles)
		if err != nil {
			return Result{}, err
		}
		res.PDF = pdf
	}
	return res, nil
}

// Render exports an unsaved deck.
func (s *Service) Render(ctx context.Context, deck []slides.Slide, tpl style.TemplateID, o *style.Override) ([]byte, error) {
	if err := o.Validate(); err != nil {
		return nil, errs.Invalid("render", err)
	}
	if s.cfg.Renderer == nil {
		return nil, errs.Render("render", errors.New("renderer not configured"))
	}
	return s.cfg.Renderer.Render(ctx, deck, tpl, o)
}

func (s *Service) repo() (store.Repository, error) {
	if s.cfg.Store == nil {
		return nil, errs.Persistence("store", errors.New("store not configured"))
	}
	return s.cfg.Store, nil
}

// Save stores p for p.OwnerID and returns its id.
func (s *Service) Save(ctx context.Context, p *store.Presentation) (string, error) {
	if p.OwnerID == "" {
		return "", errs.Invalid("save presentation", ErrNoOwner)
	}
	if err := p.CustomStyles.Validate(); err != nil {
		return "", errs.Invalid("save presentation", err)
	}
	repo, err := s.repo()
	if err != nil {
		return "", err
	}
	id, err := repo.Create(ctx, p)
	if err != nil {
		return "", err
	}
	s.log.Info().Str("id", id).Str("owner", p.OwnerID).Int("slides", len(p.Slides)).Msg("saved presentation")
	return id, nil
}

func (s *Service) List(ctx context.Context, ownerID string) ([]store.Presentation, error) {
	if ownerID == "" {
		return nil, errs.Invalid("list presentations", ErrNoOwner)
	}
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, ownerID)
}

// Get returns the presentation if ownerID owns it. Someone else's
// presentation is reported as not found.
func (s *Service) Get(ctx context.Context, ownerID, id string) (*store.Presentation, error) {
	if ownerID == "" {
		return nil, errs.Invalid("get presentation", ErrNoOwner)
	}
	repo, err := s.repo()
	if err != nil {
		return nil, err
	}
	p, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != ownerID {
		return nil, errs.Persistence("get presentation", store.ErrNotFound)
	}
	return p, nil
}

func (s *Service) Update(ctx context.Context, ownerID, id string, patch store.Patch) (*store.Presentation, error) {
	if err := patch.CustomStyles.Validate(); err != nil {
		return nil, errs.Invalid("update presentation", err)
	}
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return nil, err
	}
	p, err := s.cfg.Store.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("id", id).Str("owner", ownerID).Msg("updated presentation")
	return p, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}
	if err := s.cfg.Store.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info().Str("id", id).Str("owner", ownerID).Msg("deleted presentation")
	return nil
}

// Export renders a saved presentation with its own template and styles.
func (s *Service) Export(ctx context.Context, ownerID, id string) ([]byte, error) {
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, p.Slides, p.Template, p.CustomStyles)
}

// Preview renders slide n (1-based) of a saved presentation as PNG.
func (s *Service) Preview(ctx context.Context, ownerID, id string, n int) ([]byte, error) {
	p, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	if err := p.CustomStyles.Validate(); err != nil {
		return nil, errs.Invalid("preview", err)
	}
	if n < 1 || n > len(p.Slides) {
		return nil, errs.Persistence("preview", fmt.Errorf("slide %d: %w", n, store.ErrNotFound))
	}
	if s.cfg.Renderer == nil {
		return nil, errs.Render("preview", errors.New("renderer not configured"))
	}
	return s.cfg.Renderer.RenderSlidePNG(p.Slides[n-1], p.Template, p.CustomStyles)
}
