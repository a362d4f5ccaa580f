// internal/app/runtime.go
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/config"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/database"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/common/logger"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/reference"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/scoring"
	"github.com/arisdarya11/AI-Generate-Kesiapan-UTBK/internal/strategy"
)

// Runtime holds the read-only collaborators shared by the API, the workers
// and the CLI. It is built once at startup.
type Runtime struct {
	Catalog  *reference.Catalog
	Strategy *strategy.Adapter
	Engine   *scoring.Engine
	Postgres *database.PostgresClient
}

// Build loads the reference catalog, the optional strategy model and the
// probability policy, then assembles the scoring engine.
func Build(ctx context.Context, cfg *config.Config, log logger.Logger) (*Runtime, error) {
	rt := &Runtime{}

	catalog, pg, err := OpenCatalog(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	rt.Catalog, rt.Postgres = catalog, pg

	policy, err := scoring.PolicyWithOverrides(cfg.Scoring.Probability)
	if err != nil {
		rt.Close()
		return nil, fmt.Errorf("scoring.probability: %w", err)
	}

	rt.Strategy = strategy.Load(cfg.Strategy.Dirs, cfg.Strategy.Candidates, log)
	rt.Engine = scoring.NewEngine(catalog, scoring.EngineOptions{
		Policy:   &policy,
		Strategy: rt.Strategy,
		Logger:   log,
	})

	log.Info("scoring engine ready", map[string]interface{}{
		"reference": catalog.Version(),
		"majors":    len(catalog.Majors()),
		"strategy":  rt.Strategy.Source(),
	})
	return rt, nil
}

// OpenCatalog loads the catalog from the configured source. The postgres
// client is returned only for the postgres source and must be closed by the caller.
func OpenCatalog(ctx context.Context, cfg *config.Config, log logger.Logger) (*reference.Catalog, *database.PostgresClient, error) {
	var pg *database.PostgresClient
	if cfg.Reference.Source == reference.SourcePostgres {
		client, err := database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return nil, nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		err = client.Ping(pingCtx)
		cancel()
		if err != nil {
			client.Close()
			return nil, nil, err
		}
		pg = client
	}

	src, err := reference.NewSource(cfg.Reference.Source, cfg.Reference.Path, pg.SQL())
	if err != nil {
		pg.Close()
		return nil, nil, err
	}

	catalog, err := reference.Open(ctx, src)
	if err != nil {
		pg.Close()
		return nil, nil, err
	}
	log.Info("reference tables loaded", map[string]interface{}{
		"source":       catalog.Version(),
		"majors":       len(catalog.Majors()),
		"institutions": len(catalog.Institutions()),
	})
	return catalog, pg, nil
}

// Close releases the postgres pool, if one was opened.
func (rt *Runtime) Close() {
	if rt == nil {
		return
	}
	_ = rt.Postgres.Close()
}
