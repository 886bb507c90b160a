package copywatch

import (
	"context"
	"fmt"

	"github.com/ppiankov/copywatch/internal/brief"
	"github.com/ppiankov/copywatch/internal/config"
	"github.com/ppiankov/copywatch/internal/engine"
	"github.com/ppiankov/copywatch/internal/match"
)

// Client holds the rule engine for in-process enforcement.
// Thread-safe for concurrent checks.
type Client struct {
	cfg clientConfig
	eng *engine.Engine
}

// New creates a Client with the given options.
func New(opts ...Option) (*Client, error) {
	var cfg clientConfig
	for _, o := range opts {
		o(&cfg)
	}

	engineCfg, err := config.Load(cfg.configPath)
	if err != nil {
		return nil, fmt.Errorf("copywatch: failed to load config: %w", err)
	}
	if cfg.memoryStorage {
		engineCfg.Storage.Backend = "memory"
	}

	eng, err := engine.Open(context.Background(), engineCfg)
	if err != nil {
		return nil, fmt.Errorf("copywatch: failed to open engine: %w", err)
	}

	return &Client{cfg: cfg, eng: eng}, nil
}

// Check runs the deterministic rule matcher over the text.
func (c *Client) Check(text string) Result {
	return toResult(match.Check(text, c.eng.Store.Active()))
}

// Recheck runs the local matcher and, when the text is locally clean and
// a judge is configured, the AI second pass. Judge failures fall back to
// the local result.
func (c *Client) Recheck(ctx context.Context, text string) Result {
	return toResult(c.eng.Recheck.Recheck(ctx, text))
}

// Brief renders the active rules as a prompt brief.
func (c *Client) Brief() string {
	return brief.Build(c.eng.Store.Active())
}

// Close releases the storage backend.
func (c *Client) Close() error {
	return c.eng.Close()
}
