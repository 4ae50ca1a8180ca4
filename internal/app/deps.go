package app

import (
	"fmt"
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/nats-io/nats.go"
	"github.com/openai/openai-go/v3"

	"embedsvc/internal/cache"
	"embedsvc/internal/config"
	"embedsvc/internal/embeddings"
	"embedsvc/internal/logger"
	"embedsvc/internal/queue"
	"embedsvc/internal/store"
)

// Deps bundles common runtime dependencies for services.
type Deps struct {
	Config   config.Config
	Log      *slog.Logger
	Embedder embeddings.Embedder
	Fallback *embeddings.HashEmbedder
	Cache    cache.Cache
	Store    store.Store
	Queue    queue.Queue
}

// BuildEmbedder loads env, config, and the components the embedder service
// needs: the primary model provider, the deterministic fallback, and the
// vector cache. The primary embedder may be nil when the provider fails to
// initialize; the service keeps running on the fallback path.
func BuildEmbedder() (Deps, error) {
	cfg, log := loadBase()

	fallback := embeddings.NewHashEmbedder(cfg.EmbeddingDims)

	embedder, err := buildModelEmbedder(cfg, log)
	if err != nil {
		log.Warn("primary embedder unavailable; serving hash fallback only", "err", err)
		embedder = nil
	}

	c, err := buildCache(cfg, log)
	if err != nil {
		log.Warn("cache unavailable; continuing without caching", "err", err)
		c = cache.NewNoOpCache()
	}

	return Deps{
		Config:   cfg,
		Log:      log,
		Embedder: embedder,
		Fallback: fallback,
		Cache:    c,
	}, nil
}

// BuildGateway wires the document ingestion and search service: store,
// queue, and an embedder for search queries.
func BuildGateway() (Deps, error) {
	cfg, log := loadBase()

	st, err := buildStore(cfg)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize store: %w", err)
	}
	q, err := buildQueue(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize queue: %w", err)
	}
	embedder, err := buildModelEmbedder(cfg, log)
	if err != nil {
		return Deps{}, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return Deps{
		Config:   cfg,
		Log:      log,
		Store:    st,
		Queue:    q,
		Embedder: embedder,
		Fallback: embeddings.NewHashEmbedder(cfg.EmbeddingDims),
	}, nil
}

// BuildIndexer wires the indexing worker: store, queue, and an embedder for
// chunk vectors.
func BuildIndexer() (Deps, error) {
	return BuildGateway()
}

func loadBase() (config.Config, *slog.Logger) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "err", err)
	}
	cfg := config.Load()
	return cfg, logger.New(cfg.LogLevel)
}

func buildModelEmbedder(cfg config.Config, log *slog.Logger) (embeddings.Embedder, error) {
	switch cfg.EmbedderProvider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when EMBEDDER_PROVIDER=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel), cfg.EmbeddingDims)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize OpenAI embedder: %w", err)
		}
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel, "dims", cfg.EmbeddingDims)
		return embedder, nil
	case "remote":
		if cfg.EmbedderURL == "" {
			return nil, fmt.Errorf("EMBEDDER_URL is required when EMBEDDER_PROVIDER=remote")
		}
		embedder, err := embeddings.NewRemoteEmbedder(cfg.EmbedderURL, cfg.EmbeddingDims)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize remote embedder: %w", err)
		}
		log.Info("using remote embedder", "url", cfg.EmbedderURL)
		return embedder, nil
	case "hash":
		log.Info("using deterministic hash embedder", "dims", cfg.EmbeddingDims)
		return embeddings.NewHashEmbedder(cfg.EmbeddingDims), nil
	default:
		return nil, fmt.Errorf("invalid EMBEDDER_PROVIDER: %s (valid options: openai, remote, hash)", cfg.EmbedderProvider)
	}
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.Cache, error) {
	switch cfg.CacheProvider {
	case "redis":
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("REDIS_ADDR is required when CACHE_PROVIDER=redis")
		}
		c, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
		log.Info("using Redis cache", "addr", cfg.RedisAddr)
		return c, nil
	case "noop":
		return cache.NewNoOpCache(), nil
	default:
		return nil, fmt.Errorf("invalid CACHE_PROVIDER: %s (valid options: redis, noop)", cfg.CacheProvider)
	}
}

func buildStore(cfg config.Config) (store.Store, error) {
	if cfg.DBURL == "" {
		return nil, fmt.Errorf("DB_URL is required")
	}
	db, err := store.NewPostgres(cfg.DBURL, cfg.EmbeddingDims)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Postgres: %w", err)
	}
	return db, nil
}

func buildQueue(cfg config.Config, log *slog.Logger) (queue.Queue, error) {
	if cfg.QueueURL == "" {
		return nil, fmt.Errorf("QUEUE_URL is required")
	}
	nc, err := nats.Connect(cfg.QueueURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	log.Info("using NATS queue")
	return queue.NewNATS(log, nc), nil
}
