package main

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"trmnl/internal/carousel"
	"trmnl/internal/config"
	"trmnl/internal/content"
	"trmnl/internal/dataset"
	"trmnl/internal/engine"
	"trmnl/internal/render"
	"trmnl/internal/restore"
	"trmnl/internal/services/llm"
)

// pipeline holds the content components a command needs. Fields unused by the
// configured engine stay nil.
type pipeline struct {
	cfg        *config.Config
	store      *dataset.Store
	selector   *content.Selector
	classifier *restore.Classifier
	text       *engine.TextEngine
	images     *engine.ImageEngine
	engine     engine.Engine
}

// openPoemPipeline wires dataset → selector → classifier → renderer → text
// engine regardless of the configured engine kind.
func openPoemPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	store, err := dataset.Open(cfg.Paths.DatasetPath)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	p := &pipeline{cfg: cfg, store: store}
	p.selector = content.NewSelector(store, dataset.Filter{
		Authors:  cfg.Poems.Authors,
		MinChars: cfg.Poems.MinChars,
		MaxChars: cfg.Poems.MaxChars,
	})

	var classifier engine.Classifier
	if cfg.Restoration.Enabled {
		c, err := newClassifier(cfg, logger)
		if err != nil {
			_ = store.Close()
			return nil, err
		}
		p.classifier = c
		classifier = c
	}

	p.text = engine.NewTextEngine(p.selector, classifier, render.New(cfg, logger), cfg.PoemCacheDir(), logger)
	p.engine = p.text
	return p, nil
}

// openPipeline wires the engine selected by engine.kind.
func openPipeline(cfg *config.Config, logger *slog.Logger) (*pipeline, error) {
	if cfg.Engine.Kind == config.EngineImages {
		images := engine.NewImageEngine(cfg.Images.SourceDir, cfg.ImageCacheDir(), render.OptionsFromConfig(cfg), nil, logger)
		return &pipeline{cfg: cfg, images: images, engine: images}, nil
	}
	return openPoemPipeline(cfg, logger)
}

func newClassifier(cfg *config.Config, logger *slog.Logger) (*restore.Classifier, error) {
	llmCfg := cfg.GetLLM()
	client := llm.NewClient(llm.Config{
		APIKey:         llmCfg.APIKey,
		BaseURL:        llmCfg.BaseURL,
		Model:          llmCfg.Model,
		Referer:        llmCfg.Referer,
		Title:          llmCfg.Title,
		TimeoutSeconds: llmCfg.TimeoutSeconds,
		RetryAttempts:  llmCfg.RetryAttempts,
	})
	gen, err := restore.NewLLMGenerator(client)
	if err != nil {
		return nil, err
	}
	memo := restore.NewMemo(time.Duration(cfg.Restoration.MemoTTLMinutes) * time.Minute)
	return restore.NewClassifier(gen, memo, logger), nil
}

func (p *pipeline) carousel(logger *slog.Logger) (*carousel.Carousel, error) {
	if p == nil || p.engine == nil {
		return nil, errors.New("content engine unavailable")
	}
	return carousel.New(p.cfg.Paths.WorkingDir, p.engine, logger)
}

func (p *pipeline) Close() error {
	if p == nil || p.store == nil {
		return nil
	}
	return p.store.Close()
}
