package server

import (
	"context"
	"net"
	"sync"
	"time"

	grpchealth "google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"

	mdwerror "github.com/themifi/relox/foundation/core/error"
	"github.com/themifi/relox/internal/interpreter/api"
	"github.com/themifi/relox/internal/interpreter/service"
	"github.com/themifi/relox/internal/interpreter/store"
	"github.com/themifi/relox/pkg/core/cache"
	"github.com/themifi/relox/pkg/core/config"
	coreGrpc "github.com/themifi/relox/pkg/core/grpc"
	"github.com/themifi/relox/pkg/core/health"
	"github.com/themifi/relox/pkg/core/logging"
	"github.com/themifi/relox/pkg/core/version"
)

// DefaultHealthInterval is how often the health registry is republished
const DefaultHealthInterval = 15 * time.Second

// Server is the relox gRPC server
type Server struct {
	service   *service.Service
	grpc      *coreGrpc.Server
	health    *health.Registry
	healthSrv *grpchealth.Server
	cache     *cache.Cache
	journal   store.Journal
	logger    *logging.Logger
	config    *config.Config
	startTime time.Time

	stopOnce sync.Once
	cancel   context.CancelFunc
	done     chan struct{}
}

// Options tunes a server beyond the configuration file
type Options struct {
	Logger         *logging.Logger
	HealthInterval time.Duration
}

// New creates a server from the application configuration. It opens the
// journal when journal.path is set and the cache when cache.enabled is true.
func New(cfg *config.Config, opts Options) (*Server, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.New("relox-server")
	}

	var journal store.Journal
	if cfg.JournalEnabled() {
		j, err := store.Open(store.Config{Path: cfg.Journal.Path})
		if err != nil {
			return nil, mdwerror.Wrap(err, "failed to open journal").
				WithCode(mdwerror.CodeServiceInitialization).
				WithOperation("server.New")
		}
		journal = j
	}

	var resultCache *cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.New(cache.Config{
			TTL:             cfg.Cache.TTL.Duration,
			CleanupInterval: cfg.Cache.CleanupInterval.Duration,
		})
	}

	svc, err := service.NewService(service.Config{
		MaxDepth:       cfg.Interpreter.MaxDepth,
		MaxSourceBytes: cfg.Interpreter.MaxSourceBytes,
		Cache:          resultCache,
		Journal:        journal,
		Logger:         logger,
	})
	if err != nil {
		closeAll(journal, resultCache)
		return nil, mdwerror.Wrap(err, "failed to create service").
			WithCode(mdwerror.CodeServiceInitialization).
			WithOperation("server.New")
	}

	grpcCfg := coreGrpc.ServerConfigFrom(cfg.Server)
	grpcCfg.Logger = logger
	grpcServer := coreGrpc.NewServer(grpcCfg)

	healthRegistry := health.NewRegistry("relox", version.Server, health.DefaultCheckTimeout)
	healthRegistry.Register(health.PingCheck("interpreter", svc.Ping))
	if journal != nil {
		healthRegistry.Register(health.OptionalCheck("journal", journal.Ping))
	}

	server := &Server{
		service:   svc,
		grpc:      grpcServer,
		health:    healthRegistry,
		healthSrv: grpchealth.NewServer(),
		cache:     resultCache,
		journal:   journal,
		logger:    logger,
		config:    cfg,
		startTime: time.Now(),
	}

	api.RegisterInterpreterServer(grpcServer.GRPCServer(), server)
	healthpb.RegisterHealthServer(grpcServer.GRPCServer(), server.healthSrv)

	if opts.HealthInterval <= 0 {
		opts.HealthInterval = DefaultHealthInterval
	}
	server.startBackground(opts.HealthInterval)

	return server, nil
}

// startBackground publishes health once and keeps it current
func (s *Server) startBackground(interval time.Duration) {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.done = make(chan struct{})

	report := s.health.Publish(ctx, s.healthSrv, api.ServiceName)
	if !report.Healthy() {
		s.logger.Warn("Server starts unhealthy", "report", report.String())
	}

	go func() {
		defer close(s.done)
		s.health.Monitor(ctx, s.healthSrv, api.ServiceName, interval)
	}()
}

// PruneJournal drops entries older than journal.retention
func (s *Server) PruneJournal(ctx context.Context) (int64, error) {
	retention := s.config.Journal.Retention.Duration
	if s.journal == nil || retention <= 0 {
		return 0, nil
	}
	deleted, err := s.journal.Prune(ctx, retention)
	if err != nil {
		return 0, err
	}
	if deleted > 0 {
		s.logger.Info("Pruned journal", "deleted", deleted, "retention", retention.String())
	}
	return deleted, nil
}

// Start listens on the configured address and serves until stopped
func (s *Server) Start() error {
	s.logger.Info("Starting relox server", "address", s.config.ServerAddress(), "version", version.Server)
	s.prune()
	return s.grpc.Start()
}

// StartAsync starts the server asynchronously
func (s *Server) StartAsync() error {
	s.logger.Info("Starting relox server (async)", "address", s.config.ServerAddress(), "version", version.Server)
	s.prune()
	return s.grpc.StartAsync()
}

// Serve serves on an existing listener in the background
func (s *Server) Serve(listener net.Listener) {
	s.prune()
	s.grpc.ServeAsync(listener)
}

func (s *Server) prune() {
	if _, err := s.PruneJournal(context.Background()); err != nil {
		s.logger.Warn("Journal prune failed", "error", err)
	}
}

// Stop drains in-flight calls until ctx is done and releases the journal
// and cache
func (s *Server) Stop(ctx context.Context) {
	s.stopOnce.Do(func() {
		st := s.service.Stats()
		s.logger.Info("Stopping relox server",
			"uptime", time.Since(s.startTime).String(),
			"evaluations", st.Evaluations,
			"cache_hits", st.CacheHits,
			"cached_items", st.CachedItems)
		s.cancel()
		<-s.done
		s.healthSrv.Shutdown()
		s.grpc.StopWithTimeout(ctx)
		if err := closeAll(s.journal, s.cache); err != nil {
			s.logger.Warn("Failed to close journal", "error", err)
		}
	})
}

// Address returns the listen address
func (s *Server) Address() string {
	return s.grpc.Address()
}

// Service returns the interpreter service
func (s *Server) Service() *service.Service {
	return s.service
}

// HealthRegistry returns the health check registry
func (s *Server) HealthRegistry() *health.Registry {
	return s.health
}

func closeAll(journal store.Journal, c *cache.Cache) error {
	if c != nil {
		c.Close()
	}
	if journal != nil {
		return journal.Close()
	}
	return nil
}
