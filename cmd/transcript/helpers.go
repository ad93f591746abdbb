package main

import (
	"context"
	"fmt"

	"github.com/spf13/viper"

	"github.com/taxresolve/transcript-engine/internal/catalog"
	"github.com/taxresolve/transcript-engine/internal/common"
	"github.com/taxresolve/transcript-engine/internal/config"
	"github.com/taxresolve/transcript-engine/internal/learning"
	"github.com/taxresolve/transcript-engine/internal/parser"
	"github.com/taxresolve/transcript-engine/internal/service"
	"github.com/taxresolve/transcript-engine/internal/storage"
)

// initStorage initializes the learning store with proper path expansion.
func initStorage(ctx context.Context) (service.LearningStore, error) {
	dbPath := viper.GetString("database.path")
	if dbPath == "" {
		dbPath = "$HOME/.local/share/transcript/transcript.db"
	}
	dbPath = config.ExpandPath(dbPath)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// engine bundles the fully wired parsing stack for one command run.
type engine struct {
	catalog  *catalog.Catalog
	parser   *parser.Parser
	learning *learning.Service
	store    service.LearningStore
}

// initEngine wires catalog, learning service, and parser together. With
// learning disabled the parser runs without an observer and the store
// stays nil.
func initEngine(ctx context.Context, withLearning bool) (*engine, error) {
	cat := catalog.New()
	if err := config.ApplyPatternOverrides(cat); err != nil {
		return nil, err
	}

	e := &engine{catalog: cat}

	var observer parser.Observer
	if withLearning {
		store, err := initStorage(ctx)
		if err != nil {
			return nil, common.NewUserError("could not open the learning database (use --no-learning to parse without it)", err)
		}
		svc := learning.NewService(cat, store)
		if err := svc.Load(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		e.store = store
		e.learning = svc
		observer = svc
	}

	p, err := parser.New(cat, observer)
	if err != nil {
		if e.store != nil {
			_ = e.store.Close()
		}
		return nil, err
	}
	e.parser = p
	return e, nil
}

// close releases the engine's resources.
func (e *engine) close() {
	if e.store != nil {
		_ = e.store.Close()
	}
}
