package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/hashicorp/logutils"
	"github.com/hellofresh/health-go/v5"
	"github.com/kelseyhightower/envconfig"
	"github.com/piraces/feedstash/internal/handlers"
	"github.com/piraces/feedstash/pkg/app"
	"github.com/piraces/feedstash/pkg/cache"
	"github.com/piraces/feedstash/pkg/converter"
	"github.com/piraces/feedstash/pkg/loader"
	"github.com/piraces/feedstash/pkg/parser"
	"github.com/piraces/feedstash/pkg/ports"
	"github.com/piraces/feedstash/pkg/registry"
	"github.com/piraces/feedstash/pkg/transport"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Command line flags.
var (
	addr = flag.String("addr", "", "listen address (overrides LISTEN_ADDR)")
)

type Service struct {
	ListenAddr             string `envconfig:"LISTEN_ADDR" default:":8080"`
	Version                string `envconfig:"VERSION" default:"unknown"`
	CacheBackend           string `envconfig:"CACHE_BACKEND" default:"file"`
	CacheDirectory         string `envconfig:"CACHE_DIR" default:"cache"`
	CacheDatabasePath      string `envconfig:"CACHE_DB" default:"db/feedstash.sqlite"`
	RedisAddress           string `envconfig:"REDIS_ADDRESS" default:"localhost:6379"`
	RegistryDatabasePath   string `envconfig:"REGISTRY_DB" default:"db/registry.sqlite"`
	Offline                bool   `envconfig:"OFFLINE" default:"false"`
	UserAgent              string `envconfig:"USER_AGENT" default:"feedstash"`
	RequestTimeoutMillis   int64  `envconfig:"REQUEST_TIMEOUT" default:"30000"`
	RetryMax               int    `envconfig:"RETRY_MAX" default:"0"`
	MaxContentLength       int    `envconfig:"MAX_CONTENT_LENGTH" default:"250"`
	MaxDocumentSize        int64  `envconfig:"MAX_DOCUMENT_SIZE" default:"0"`
	RefreshIntervalMinutes int64  `envconfig:"REFRESH_INTERVAL_MINUTES" default:"30"`
	DeleteFailingFeeds     bool   `envconfig:"DELETE_FAILING_FEEDS" default:"false"`
}

func ConfigureLogging() {
	filter := &logutils.LevelFilter{
		Levels:   []logutils.LogLevel{"DEBUG", "INFO", "WARN", "ERROR", "FATAL"},
		MinLevel: logutils.LogLevel(os.Getenv("LOG_LEVEL")),
		Writer:   os.Stderr,
	}
	log.SetOutput(filter)
}

func CreateHealthCheck(version string) *health.Health {
	h, _ := health.New(health.WithComponent(health.Component{
		Name:    "feedstash",
		Version: version,
	}), health.WithChecks(health.Config{
		Name:      "self",
		Timeout:   time.Second * 5,
		SkipOnErr: false,
		Check: func(ctx context.Context) error {
			return nil
		},
	}))
	return h
}

func newCacheStore(s *Service) (loader.CacheStore, error) {
	switch s.CacheBackend {
	case "file":
		return cache.NewFileStore(s.CacheDirectory)
	case "sqlite":
		if err := os.MkdirAll(filepath.Dir(s.CacheDatabasePath), 0o755); err != nil {
			return nil, err
		}
		return cache.NewSQLiteStore(s.CacheDatabasePath)
	case "memory":
		return cache.NewMemoryStore()
	case "redis":
		return cache.NewRedisStore(s.RedisAddress), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", s.CacheBackend)
	}
}

func main() {
	flag.Parse()
	ConfigureLogging()

	var s Service
	if err := envconfig.Process("", &s); err != nil {
		log.Fatalf("[FATAL] couldn't process envconfig: %v", err)
	}
	if *addr != "" {
		s.ListenAddr = *addr
	}
	log.Printf("[INFO] Running VERSION %s:\n - LISTEN_ADDR=%s\n - CACHE_BACKEND=%s\n\n", s.Version, s.ListenAddr, s.CacheBackend)

	store, err := newCacheStore(&s)
	if err != nil {
		log.Fatalf("[FATAL] couldn't initialize the cache store: %v", err)
	}

	opts := []loader.Option{loader.WithSlotResolver(cache.NewSlotResolver())}
	if s.Offline {
		opts = append(opts, loader.WithConnectivityOracle(loader.OracleFunc(func() bool {
			return false
		})))
	}

	feedLoader := loader.New(
		transport.New(transport.Config{
			UserAgent: s.UserAgent,
			Timeout:   time.Duration(s.RequestTimeoutMillis) * time.Millisecond,
			RetryMax:  s.RetryMax,
		}),
		parser.New(parser.Config{MaxDocumentSize: s.MaxDocumentSize}),
		store,
		opts...,
	)

	if err := os.MkdirAll(filepath.Dir(s.RegistryDatabasePath), 0o755); err != nil {
		log.Fatalf("[FATAL] couldn't create the registry directory: %v", err)
	}
	feedRegistry, err := registry.New(s.RegistryDatabasePath)
	if err != nil {
		log.Fatalf("[FATAL] couldn't open the feed registry: %v", err)
	}

	application := app.App{
		LoadFeed:      app.NewHandlerLoadFeed(feedLoader),
		SubscribeFeed: app.NewHandlerSubscribeFeed(feedLoader, feedRegistry),
		RefreshFeeds:  app.NewHandlerRefreshFeeds(s.DeleteFailingFeeds, feedLoader, feedRegistry),
	}

	renderer, err := converter.NewItemRenderer(s.MaxContentLength)
	if err != nil {
		log.Fatalf("[FATAL] couldn't create the item renderer: %v", err)
	}

	healthCheck := CreateHealthCheck(s.Version)

	mux := http.NewServeMux()
	mux.HandleFunc("/feed", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleFeed(w, r, application)
	})
	mux.HandleFunc("/preview", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandlePreview(w, r, application, renderer)
	})
	mux.HandleFunc("/subscribe", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleSubscribe(w, r, application)
	})
	mux.HandleFunc("/feeds", func(w http.ResponseWriter, r *http.Request) {
		handlers.HandleList(w, r, feedRegistry)
	})
	mux.HandleFunc("/healthz", healthCheck.HandlerFunc)
	mux.Handle("/metrics", promhttp.Handler())

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	refreshTimer := ports.NewRefreshFeedsTimer(
		application.RefreshFeeds,
		time.Duration(s.RefreshIntervalMinutes)*time.Minute,
	)
	go refreshTimer.Run(ctx)

	server := &http.Server{Addr: s.ListenAddr, Handler: mux}

	go func() {
		<-ctx.Done()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Printf("[ERROR] failure to shut down cleanly: %v", err)
		}
		if err := feedLoader.Close(); err != nil {
			log.Printf("[ERROR] failure to close the loader: %v", err)
		}
		if err := feedRegistry.Close(); err != nil {
			log.Printf("[ERROR] failure to close the registry: %v", err)
		}
	}()

	log.Printf("[INFO] listening on %s", s.ListenAddr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[FATAL] server error: %v", err)
	}
}
