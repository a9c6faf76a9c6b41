// Package kernel is the composition root: it opens the store, cache and
// disk, builds the services and assembles the HTTP handler.
package kernel

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/routes"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/config"
	"github.com/shashiranjanraj/storefront/pkg/cache"
	"github.com/shashiranjanraj/storefront/pkg/logger"
	"github.com/shashiranjanraj/storefront/pkg/metrics"
	"github.com/shashiranjanraj/storefront/pkg/middleware"
	"github.com/shashiranjanraj/storefront/pkg/reqid"
	"github.com/shashiranjanraj/storefront/pkg/response"
	"github.com/shashiranjanraj/storefront/pkg/router"
	"github.com/shashiranjanraj/storefront/pkg/storage"
	"github.com/shashiranjanraj/storefront/pkg/upload"
	"github.com/shashiranjanraj/storefront/pkg/workerpool"
)

// Options are the collaborators of a Kernel. Zero values are filled in:
// a memory cache and no uploads.
type Options struct {
	Store *repositories.Store
	Cache cache.Store
	Disk  storage.Disk

	UploadWorkers     int
	UploadMaxBytes    int64
	LowStockThreshold int
	CartTTL           time.Duration
	// RateLimit is requests per client per minute; 0 disables it.
	RateLimit int
}

// Kernel owns the long-lived resources behind the HTTP handler.
type Kernel struct {
	Store    *repositories.Store
	Cache    cache.Store
	Services *services.Services
	Router   *router.Router

	pool *workerpool.Pool
}

// New builds the services and routes over opts.
func New(opts Options) (*Kernel, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("kernel: a store is required")
	}
	if opts.Cache == nil {
		opts.Cache = cache.NewMemory()
	}
	if opts.UploadWorkers <= 0 {
		opts.UploadWorkers = 4
	}

	k := &Kernel{Store: opts.Store, Cache: opts.Cache}

	var uploads *upload.Saver
	if opts.Disk != nil {
		k.pool = workerpool.New(opts.UploadWorkers)
		uploads = upload.NewSaver(opts.Disk, k.pool, opts.UploadMaxBytes)
	}

	k.Services = services.New(services.Deps{
		Store:             opts.Store,
		Cache:             opts.Cache,
		Uploads:           uploads,
		LowStockThreshold: opts.LowStockThreshold,
		CartTTL:           opts.CartTTL,
	})

	r := router.New()
	// Outermost first: metrics see total latency, recovery guards the rest,
	// the request id exists before anything logs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.CORSFromConfig()))
	if opts.RateLimit > 0 {
		r.Use(middleware.RateLimit(opts.Cache, opts.RateLimit, time.Minute))
	}
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.Error(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/health", "health", k.health)
	r.Get("/metrics", "metrics", metrics.Handler())
	if local, ok := opts.Disk.(*storage.LocalDisk); ok {
		r.Mount("/uploads", "uploads", http.FileServer(http.Dir(local.Root())))
	}
	if err := routes.RegisterAPI(r, k.Services); err != nil {
		return nil, err
	}

	k.Router = r
	return k, nil
}

// Boot builds a Kernel from configuration.
func Boot(ctx context.Context, migrate bool, out io.Writer) (*Kernel, error) {
	if err := config.Load(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	store, err := OpenStore(ctx, config.DatabaseDriver(), migrate, out)
	if err != nil {
		return nil, fmt.Errorf("store: %w", err)
	}
	disk, err := storage.New(ctx, config.StorageDefault())
	if err != nil {
		store.Close(ctx) //nolint:errcheck
		return nil, fmt.Errorf("storage: %w", err)
	}
	logger.Info("store opened", "backend", store.Backend, "disk", config.StorageDefault())

	return New(Options{
		Store:             store,
		Cache:             cache.Connect(ctx),
		Disk:              disk,
		UploadWorkers:     config.Int("UPLOAD_WORKERS", 4),
		UploadMaxBytes:    config.UploadMaxBytes(),
		LowStockThreshold: config.LowStockThreshold(),
		CartTTL:           config.CartTTL(),
		RateLimit:         config.RateLimit(),
	})
}

func (k *Kernel) Handler() http.Handler { return k.Router.Handler() }

// health reports 503 while the store does not answer a ping.
func (k *Kernel) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	cacheOK := k.Cache.Ping(ctx) == nil
	if err := k.Store.Ping(ctx); err != nil {
		logger.WithCtx(ctx).Warn("health check failed", "error", err)
		response.ErrorWithData(w, http.StatusServiceUnavailable, "Store unavailable", map[string]any{
			"store": k.Store.Backend,
			"cache": cacheOK,
		})
		return
	}
	response.Success(w, map[string]any{"status": "ok", "store": k.Store.Backend, "cache": cacheOK})
}

// Close releases the pool, cache and store.
func (k *Kernel) Close(ctx context.Context) {
	if k.pool != nil {
		k.pool.Shutdown()
	}
	if err := k.Cache.Close(); err != nil {
		logger.Warn("cache close failed", "error", err)
	}
	if err := k.Store.Close(ctx); err != nil {
		logger.Warn("store close failed", "error", err)
	}
}
