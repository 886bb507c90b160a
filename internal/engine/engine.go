// Package engine assembles a rule store and reconciler from
// configuration. The CLI and the server share this wiring.
package engine

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/recheck"
	"github.com/ppiankov/copywatch/internal/rulestore"
	"github.com/ppiankov/copywatch/internal/storage"
)

// Engine bundles the configured store and reconciler.
type Engine struct {
	Store   *rulestore.Store
	Recheck *recheck.Reconciler
	Judge   recheck.Judge

	closer io.Closer
}

// Open builds an engine from configuration: storage backend, optional
// judge, store, reconciler.
func Open(ctx context.Context, cfg *config.Config) (*Engine, error) {
	kv, closer, err := buildKV(cfg.Storage)
	if err != nil {
		return nil, err
	}

	judge, err := buildJudge(ctx, cfg.Judge)
	if err != nil {
		if closer != nil {
			closer.Close()
		}
		return nil, err
	}

	store := rulestore.New(kv)
	return &Engine{
		Store:   store,
		Recheck: recheck.New(store, judge),
		Judge:   judge,
		closer:  closer,
	}, nil
}

// WithJudge returns a copy of the engine whose reconciler uses the given
// judge. The server uses this to instrument judge calls.
func (e *Engine) WithJudge(judge recheck.Judge) *Engine {
	return &Engine{
		Store:   e.Store,
		Recheck: recheck.New(e.Store, judge),
		Judge:   judge,
		closer:  e.closer,
	}
}

// Close releases the storage backend, if it holds resources.
func (e *Engine) Close() error {
	if e.closer != nil {
		return e.closer.Close()
	}
	return nil
}

func buildKV(cfg config.StorageConfig) (storage.KV, io.Closer, error) {
	switch cfg.Backend {
	case "", "file":
		dir := cfg.Dir
		if dir == "" {
			dir = storage.DefaultDir()
		}
		kv, err := storage.NewFile(dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open file storage: %w", err)
		}
		return kv, nil, nil

	case "sqlite":
		path := cfg.DBPath
		if path == "" {
			path = filepath.Join(storage.DefaultDir(), "rules.db")
		}
		kv, err := storage.NewSQLite(path)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite storage: %w", err)
		}
		return kv, kv, nil

	case "memory":
		return storage.NewMemory(), nil, nil

	default:
		return nil, nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

func buildJudge(ctx context.Context, cfg config.JudgeConfig) (recheck.Judge, error) {
	switch cfg.Kind {
	case "", "none":
		return nil, nil

	case "http":
		if cfg.APIURL == "" {
			return nil, fmt.Errorf("http judge requires api_url")
		}
		return recheck.NewHTTPJudge(recheck.HTTPJudgeConfig{
			APIURL:    cfg.APIURL,
			APIKey:    cfg.APIKey,
			Model:     cfg.Model,
			MaxTokens: cfg.MaxTokens,
			Timeout:   time.Duration(cfg.TimeoutSeconds) * time.Second,
		}), nil

	case "bedrock":
		return recheck.NewBedrockJudge(ctx, recheck.BedrockJudgeConfig{
			Region:    cfg.Region,
			ModelID:   cfg.ModelID,
			MaxTokens: cfg.MaxTokens,
		})

	default:
		return nil, fmt.Errorf("unknown judge kind %q", cfg.Kind)
	}
}
