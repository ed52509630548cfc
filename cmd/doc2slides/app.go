package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/thywilljoshua/doc-to-slides/internal/ai"
	"github.com/thywilljoshua/doc-to-slides/internal/config"
	"github.com/thywilljoshua/doc-to-slides/internal/convert"
	"github.com/thywilljoshua/doc-to-slides/internal/extract"
	"github.com/thywilljoshua/doc-to-slides/internal/logging"
	"github.com/thywilljoshua/doc-to-slides/internal/render"
	"github.com/thywilljoshua/doc-to-slides/internal/slides"
	"github.com/thywilljoshua/doc-to-slides/internal/store"
)

// app holds the process-wide collaborators built from config.
type app struct {
	cfg   *config.Config
	log   zerolog.Logger
	store *store.SQLite
	svc   *convert.Service
}

func newApp(ctx context.Context, cfgPath string) (*app, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LoggingConfig())

	gen, err := ai.New(ctx, cfg.AIConfig())
	if err != nil {
		return nil, fmt.Errorf("ai provider: %w", err)
	}
	if _, off := gen.(ai.Noop); off {
		log.Warn().Msg("ai provider is off, every deck will be the fallback slide")
	}
	rdr, err := render.New(cfg.RenderConfig(), log)
	if err != nil {
		return nil, fmt.Errorf("renderer: %w", err)
	}
	db, err := store.Open(ctx, cfg.Database.Path)
	if err != nil {
		return nil, err
	}

	svc := convert.New(convert.Config{
		Extractor:   extract.New(log),
		Synthesizer: slides.NewSynthesizer(gen, slides.WithMaxInputChars(cfg.AI.MaxInputChars), slides.WithLogger(log)),
		Renderer:    rdr,
		Store:       db,
		Log:         log,
	})
	return &app{cfg: cfg, log: log, store: db, svc: svc}, nil
}

func (a *app) Close() error { return a.store.Close() }

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}
