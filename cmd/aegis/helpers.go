package main

import (
	"context"
	"fmt"

	"aegis/internal/catalog"
	"aegis/internal/config"
	"aegis/internal/coordinate"
	"aegis/internal/judge"
	"aegis/internal/logging"
	"aegis/internal/report"
	"aegis/internal/store"
)

// app bundles the wired engine for command handlers. Open once per
// invocation, close before exit.
type app struct {
	cfg   config.Config
	st    store.Store
	cat   *catalog.Catalog
	gen   *report.Generator
	coord *coordinate.Coordinator
	life  *coordinate.Lifecycle
}

func openApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(rootFlags.config)
	if err != nil {
		return nil, err
	}
	logging.Init(logging.ParseLevel(cfg.Log.Level), cfg.Log.Format)

	dbPath := cfg.DBPath
	if rootFlags.db != "" {
		dbPath = rootFlags.db
	}
	st, err := store.Open(dbPath)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}

	cat, err := catalog.Load()
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("load control catalog: %w", err)
	}
	jd, err := judge.New(ctx, cfg.Judge)
	if err != nil {
		st.Close()
		return nil, fmt.Errorf("configure judge: %w", err)
	}

	gen := report.NewGenerator(st, cat)
	return &app{
		cfg:   cfg,
		st:    st,
		cat:   cat,
		gen:   gen,
		coord: coordinate.New(st, cat, jd, gen, cfg.Coordinator),
		life:  coordinate.NewLifecycle(st, cfg.Lifecycle.RestoreWindow()),
	}, nil
}

func (a *app) Close() {
	a.coord.Close()
	_ = a.st.Close()
}
