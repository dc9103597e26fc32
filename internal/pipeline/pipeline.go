// Package pipeline assembles the truthcheck components from configuration.
package pipeline

import (
	"fmt"
	"net/http"

	"github.com/ppiankov/truthcheck/internal/aggregate"
	"github.com/ppiankov/truthcheck/internal/factcheck"
	"github.com/ppiankov/truthcheck/internal/history"
	"github.com/ppiankov/truthcheck/internal/imageanalysis"
	"github.com/ppiankov/truthcheck/internal/model"
	"github.com/ppiankov/truthcheck/internal/popup"
	"github.com/ppiankov/truthcheck/internal/reference"
	"github.com/ppiankov/truthcheck/internal/storage"
	"github.com/ppiankov/truthcheck/internal/util"
	"github.com/ppiankov/truthcheck/internal/worker"
	"github.com/sirupsen/logrus"
)

// Pipeline owns the long-lived components shared by the commands
type Pipeline struct {
	config      *model.Config
	logger      logrus.FieldLogger
	backend     storage.Backend
	lookupCache storage.Backend // knowledge-base lookup cache, nil when disabled
	httpClient  *http.Client
	aggregator  *aggregate.Aggregator
	images      *imageanalysis.Client
	history     *history.Store
}

// New opens the history backend and builds the service clients
func New(cfg *model.Config, logger logrus.FieldLogger) (*Pipeline, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	storageCfg := cfg.Storage
	path, err := util.ExpandHome(storageCfg.Path)
	if err != nil {
		return nil, err
	}
	storageCfg.Path = path

	backend, err := storage.Open(storageCfg)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	limiter := newLimiter(cfg.RateLimiting)
	httpClient := util.NewHTTPClient(cfg.HTTP, limiter)

	p := &Pipeline{
		config:     cfg,
		logger:     logger,
		backend:    backend,
		httpClient: httpClient,
	}

	var lookup aggregate.ReferenceLookup
	if cfg.KnowledgeBase.Enabled {
		var cache storage.Backend
		if cfg.KnowledgeBase.CacheTTL > 0 {
			p.lookupCache = storage.NewMemoryBackend(cfg.KnowledgeBase.CacheTTL)
			cache = p.lookupCache
		}
		lookup = reference.NewWikipediaClient(
			cfg.KnowledgeBase.SearchURL,
			cfg.KnowledgeBase.ArticleBaseURL,
			httpClient,
			cache,
		)
	}

	p.aggregator = aggregate.New(
		factcheck.NewClient(cfg.FactCheck.BaseURL, httpClient),
		lookup,
		cfg.News.SearchURL,
		logger,
	)
	p.images = imageanalysis.NewClient(cfg.ImageAnalysis.BaseURL, httpClient)
	p.history = history.NewStore(backend, cfg.History, logger)

	logger.WithFields(logrus.Fields{
		"storage":        storageCfg.Backend,
		"fact_check":     cfg.FactCheck.BaseURL,
		"image_analysis": cfg.ImageAnalysis.BaseURL,
		"knowledge_base": cfg.KnowledgeBase.Enabled,
	}).Debug("Pipeline ready")

	return p, nil
}

// newLimiter builds the outbound limiter with its per-host overrides
func newLimiter(cfg model.RateLimitConfig) *worker.Limiter {
	limiter := worker.NewLimiter(cfg.RequestsPerSecond, cfg.BurstSize)
	for _, h := range cfg.Hosts {
		limiter.SetHostRate(h.Host, h.RequestsPerSecond, h.BurstSize)
	}
	return limiter
}

// Controller returns a controller rendering into view. The history list is drawn into view as well.
func (p *Pipeline) Controller(view View) *popup.Controller {
	p.history.SetView(view)
	return popup.NewController(p.aggregator, p.images, p.history, view, p.logger)
}

// View is everything a front end draws
type View interface {
	popup.View
	history.View
}

// History returns the history store
func (p *Pipeline) History() *history.Store {
	return p.history
}

// Batch returns a processor that checks claims concurrently and records each success
func (p *Pipeline) Batch(workers int) *worker.BatchProcessor {
	if workers <= 0 {
		workers = p.config.Concurrency.Workers
	}
	return worker.NewBatchProcessor(p.aggregator, p.history, workers)
}

// HTTPClient returns the rate-limited client shared by the service clients
func (p *Pipeline) HTTPClient() *http.Client {
	return p.httpClient
}

// Close releases the storage backend
func (p *Pipeline) Close() error {
	if p.lookupCache != nil {
		_ = p.lookupCache.Close()
	}
	return p.backend.Close()
}
