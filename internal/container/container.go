package container

import (
	"context"
	"fmt"
	"net/url"

	"golang.org/x/sync/errgroup"

	"productcat/scraper/internal/client"
	"productcat/scraper/internal/config"
	"productcat/scraper/internal/metrics"
	"productcat/scraper/internal/proxy"
	"productcat/scraper/internal/queue"
	"productcat/scraper/internal/repository"
	"productcat/scraper/internal/service"
	"productcat/scraper/internal/state"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"
)

// Container holds all initialized components
type Container struct {
	Config     *config.Config
	Sessions   client.SessionFactory
	Repository repository.OutcomeRepository
	Progress   state.ProgressRecorder
	Publisher  queue.Publisher
	Metrics    *metrics.Metrics

	Orchestrator *service.Orchestrator

	db     *pgxpool.Pool
	sqlite repository.SQLiteRepository
	redis  *redis.Client
}

// New creates a new container with all dependencies initialized
func New(ctx context.Context, cfg *config.Config) (*Container, error) {
	container := &Container{
		Config:  cfg,
		Metrics: metrics.New(),
	}

	proxySupplier, err := proxy.NewProxySupplier(ctx, cfg.Fetch.Proxies, proxyTestURL(cfg.Fetch.URLTemplate))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize proxy supplier: %w", err)
	}

	switch cfg.Fetch.Driver {
	case "http":
		container.Sessions = client.NewHTTPSessionFactory(cfg.Fetch, proxySupplier)
	default:
		container.Sessions = client.NewBrowserSessionFactory(cfg.Fetch, proxySupplier)
	}

	if err := container.initRepository(ctx); err != nil {
		container.Close()
		return nil, err
	}

	if cfg.Redis.Enabled {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.Database,
		})

		if _, err := rdb.Ping(ctx).Result(); err != nil {
			rdb.Close()
			container.Close()
			return nil, fmt.Errorf("failed to connect to Redis: %w", err)
		}
		log.Info("✅ Connected to Redis successfully")

		container.redis = rdb
		container.Progress = state.NewRedisProgressRecorder(rdb)
		container.Publisher = queue.NewRedisPublisher(rdb, cfg.Redis.StreamMaxLen)
	} else {
		container.Progress = state.NewMemoryProgressRecorder()
		container.Publisher = queue.NopPublisher{}
	}

	container.Orchestrator = service.NewOrchestrator(*cfg, service.Dependencies{
		Sessions:   container.Sessions,
		Repository: container.Repository,
		Progress:   container.Progress,
		Publisher:  container.Publisher,
		Observer:   container.Metrics,
		Pacer:      service.NewRandomPacer(cfg.Fetch.MinDelay, cfg.Fetch.MaxDelay),
	})

	return container, nil
}

func (c *Container) initRepository(ctx context.Context) error {
	cfg := c.Config

	switch cfg.Output.Driver {
	case "s3":
		repo, err := repository.NewS3Repository(ctx, cfg.S3, cfg.Output.Path)
		if err != nil {
			return fmt.Errorf("failed to initialize S3 output: %w", err)
		}
		c.Repository = repo

	case "postgres":
		db, err := pgxpool.New(ctx, cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("failed to connect to Postgres: %w", err)
		}
		c.db = db

		repo, err := repository.NewPostgresRepository(ctx, db)
		if err != nil {
			return err
		}
		c.Repository = repo

	case "sqlite":
		repo, err := repository.OpenSQLiteRepository(ctx, cfg.SQLite.Path)
		if err != nil {
			return err
		}
		c.sqlite = repo
		c.Repository = repo

	default:
		c.Repository = repository.NewCSVRepository(cfg.Output.Path)
	}

	log.Infof("🗄️ Output driver %s -> %s", cfg.Output.Driver, c.Repository.Location())
	return nil
}

// Run executes one acquisition, serving metrics alongside when configured
func (c *Container) Run(ctx context.Context) (*service.Summary, error) {
	addr := c.Config.Metrics.Addr
	if addr == "" {
		return c.Orchestrator.Run(ctx)
	}

	metricsCtx, stop := context.WithCancel(ctx)
	g := new(errgroup.Group)
	g.Go(func() error {
		return c.Metrics.Serve(metricsCtx, addr)
	})

	summary, err := c.Orchestrator.Run(ctx)

	stop()
	if serveErr := g.Wait(); serveErr != nil {
		log.Warnf("⚠️ Metrics endpoint failed: %v", serveErr)
	}

	return summary, err
}

// Close performs cleanup when shutting down
func (c *Container) Close() error {
	log.Info("Shutting down container...")

	if c.db != nil {
		c.db.Close()
	}
	if c.sqlite != nil {
		if err := c.sqlite.Close(); err != nil {
			log.Warnf("⚠️ Failed to close sqlite: %v", err)
		}
	}
	if c.redis != nil {
		c.redis.Close()
	}

	log.Info("Container shut down successfully")
	return nil
}

// proxyTestURL is the site root of the product URL template
func proxyTestURL(urlTemplate string) string {
	u, err := url.Parse(fmt.Sprintf(urlTemplate, ""))
	if err != nil || u.Host == "" {
		return urlTemplate
	}
	return u.Scheme + "://" + u.Host + "/"
}
