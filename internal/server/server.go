// Package server exposes a loaded template library over HTTP and streams
// registry events to websocket clients.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/zeusync/simmeta/internal/core/events/bus"
	"github.com/zeusync/simmeta/internal/core/metadata/library"
	"github.com/zeusync/simmeta/internal/core/observability/log"
)

// Server serves one Library.
type Server struct {
	lib    *library.Library
	events bus.EventBus
	feed   *eventFeed
	stats  *statsObserver

	httpServer *http.Server
	listener   net.Listener

	// Server state
	running int32 // atomic bool
	closed  int32 // atomic bool

	config Config
	logger log.Log

	workerGroup sync.WaitGroup
}

// Config holds server configuration
type Config struct {
	ListenAddr string

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Event feed
	MaxFeedClients int
	FeedBufferSize int

	// Token, when set, is required as a bearer token or token query
	// parameter on every request.
	Token string
}

// DefaultServerConfig returns default server configuration
func DefaultServerConfig() Config {
	return Config{
		ListenAddr:      "127.0.0.1:8080",
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		MaxFeedClients:  256,
		FeedBufferSize:  64,
	}
}

// NewServer wires a server to lib. Registry events reach feed clients
// through events, which should be the bus the library publishes to.
func NewServer(config Config, lib *library.Library, events bus.EventBus, logger log.Log) *Server {
	if logger == nil {
		logger = log.Provide()
	}
	if events == nil {
		events = bus.New()
	}
	defaults := DefaultServerConfig()
	if config.MaxFeedClients <= 0 {
		config.MaxFeedClients = defaults.MaxFeedClients
	}
	if config.FeedBufferSize <= 0 {
		config.FeedBufferSize = defaults.FeedBufferSize
	}
	if config.ShutdownTimeout <= 0 {
		config.ShutdownTimeout = defaults.ShutdownTimeout
	}

	s := &Server{
		lib:    lib,
		events: events,
		stats:  newStatsObserver(),
		config: config,
		logger: logger.With(log.String("component", "server")),
	}
	s.feed = newEventFeed(config.MaxFeedClients, config.FeedBufferSize, s.logger)
	events.AddObserver(s.stats)
	if err := s.feed.attach(events); err != nil {
		s.logger.Error("Failed to subscribe event feed", log.Error(err))
	}

	s.logger.Info("Server created",
		log.String("listen_addr", config.ListenAddr),
		log.String("dataset", lib.Root()))

	return s
}

// Handler returns the routed HTTP handler, for embedding or httptest.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.routes(mux)
	var h http.Handler = mux
	if s.config.Token != "" {
		h = tokenAuth(s.config.Token, h)
	}
	return h
}

// Start begins serving on ListenAddr.
func (s *Server) Start(ctx context.Context) error {
	if atomic.LoadInt32(&s.closed) == 1 {
		return ErrServerClosed
	}

	if !atomic.CompareAndSwapInt32(&s.running, 0, 1) {
		return ErrServerAlreadyRunning
	}

	s.logger.Info("Starting server")

	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", s.config.ListenAddr)
	if err != nil {
		atomic.StoreInt32(&s.running, 0)
		s.logger.Error("Failed to create listener", log.Error(err))
		return err
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	s.workerGroup.Add(1)
	go func() {
		defer s.workerGroup.Done()
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server failed", log.Error(err))
		}
	}()

	s.logger.Info("Server listening", log.String("addr", listener.Addr().String()))
	return nil
}

// Addr is the bound listen address once started.
func (s *Server) Addr() string {
	if s.listener == nil {
		return s.config.ListenAddr
	}
	return s.listener.Addr().String()
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	if !atomic.CompareAndSwapInt32(&s.running, 1, 0) {
		return ErrServerNotRunning
	}

	s.logger.Info("Stopping server")

	ctx, cancel := context.WithTimeout(ctx, s.config.ShutdownTimeout)
	defer cancel()

	var err error
	s.feed.closeAll()
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}
	s.workerGroup.Wait()

	s.logger.Info("Server stopped")
	return err
}

// Close closes the server and releases all resources
func (s *Server) Close() error {
	if !atomic.CompareAndSwapInt32(&s.closed, 0, 1) {
		return nil
	}

	if atomic.LoadInt32(&s.running) == 1 {
		_ = s.Stop(context.Background())
	}
	_ = s.feed.detach()
	s.feed.closeAll()
	s.events.RemoveObserver(s.stats)

	s.logger.Info("Server closed")
	return nil
}

// GetStats returns server statistics
func (s *Server) GetStats() Stats {
	templates := make(map[string]int)
	for _, f := range s.lib.Families() {
		templates[f.Name()] = f.NumObjects()
	}
	return Stats{
		Running:     atomic.LoadInt32(&s.running) == 1,
		Templates:   templates,
		FeedClients: s.feed.count(),
		Events:      s.events.GetMetrics(),
		ByFamily:    s.stats.snapshot(),
	}
}

// Stats contains server statistics
type Stats struct {
	Running     bool                `json:"running"`
	Templates   map[string]int      `json:"templates"`
	FeedClients int                 `json:"feed_clients"`
	Events      bus.EventBusMetrics `json:"events"`
	ByFamily    map[string]uint64   `json:"events_by_family"`
}

// statsObserver counts published events per family. Registering it also
// turns on the bus's own counters.
type statsObserver struct {
	mu     sync.Mutex
	counts map[string]uint64
}

func newStatsObserver() *statsObserver {
	return &statsObserver{counts: make(map[string]uint64)}
}

func (o *statsObserver) OnPublish(topic, _ string, _ bus.Event) {
	o.mu.Lock()
	o.counts[topic]++
	o.mu.Unlock()
}

func (o *statsObserver) OnDelivered(string, string, int, error, int64) {}

func (o *statsObserver) snapshot() map[string]uint64 {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make(map[string]uint64, len(o.counts))
	for k, v := range o.counts {
		out[k] = v
	}
	return out
}
