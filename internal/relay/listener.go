package relay

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/ytget/credential-mapper/internal/events"
	"github.com/ytget/credential-mapper/internal/logger"
)

// DefaultPort is the fixed local port shared by the listener and the bookmarklet.
const DefaultPort = 32192

// Listener defaults.
const (
	DefaultHost            = "127.0.0.1"
	MapPath                = "/map"
	DefaultRateLimit       = rate.Limit(5)
	DefaultRateBurst       = 10
	DefaultShutdownTimeout = 5 * time.Second
	readHeaderTimeout      = 5 * time.Second
)

var (
	// ErrAlreadyRunning is returned by Start when the listener is bound.
	ErrAlreadyRunning = errors.New("relay: server already running")
	// ErrNotRunning is returned by Stop when there is nothing to stop.
	ErrNotRunning = errors.New("relay: server not running")
)

// DefaultAddr returns the address the listener binds to by default.
func DefaultAddr() string {
	return net.JoinHostPort(DefaultHost, strconv.Itoa(DefaultPort))
}

// Option configures a Listener.
type Option func(*Listener)

// WithAddr overrides the bind address (tests use "127.0.0.1:0").
func WithAddr(addr string) Option {
	return func(l *Listener) { l.addr = addr }
}

// WithRateLimit overrides the per-client request budget.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(l *Listener) {
		l.rateLimit = r
		l.rateBurst = burst
	}
}

// WithShutdownTimeout bounds how long Stop waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(l *Listener) { l.shutdownTimeout = d }
}

// Listener is the single local HTTP relay. Start and Stop are idempotent
// in the sense that a second call reports an error and changes nothing.
type Listener struct {
	mu     sync.Mutex
	server *http.Server
	bound  string
	done   chan struct{}

	addr            string
	rateLimit       rate.Limit
	rateBurst       int
	shutdownTimeout time.Duration

	engine *gin.Engine
	bus    events.Bus
	log    *logger.Logger
}

// NewListener builds the HTTP engine. Nothing is bound until Start.
func NewListener(bus events.Bus, log *logger.Logger, opts ...Option) *Listener {
	if log == nil {
		log = logger.Discard()
	}
	l := &Listener{
		addr:            DefaultAddr(),
		rateLimit:       DefaultRateLimit,
		rateBurst:       DefaultRateBurst,
		shutdownTimeout: DefaultShutdownTimeout,
		bus:             bus,
		log:             log.With("component", "relay"),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.engine = l.newEngine()
	return l
}

func (l *Listener) newEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(requestLogger(l.log))
	engine.Use(corsMiddleware())

	limiter := newIPRateLimiter(l.rateLimit, l.rateBurst, l.log)
	engine.POST(MapPath, limiter.middleware(), l.handleMap)
	engine.OPTIONS("/*path", handlePreflight)

	return engine
}

// Handler exposes the HTTP handler, mainly for tests.
func (l *Listener) Handler() http.Handler {
	return l.engine
}

// Start binds the address and serves in the background.
func (l *Listener) Start() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.server != nil {
		return ErrAlreadyRunning
	}

	ln, err := net.Listen("tcp", l.addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", l.addr, err)
	}

	srv := &http.Server{
		Handler:           l.engine,
		ReadHeaderTimeout: readHeaderTimeout,
	}
	done := make(chan struct{})

	l.server = srv
	l.bound = ln.Addr().String()
	l.done = done

	go l.serve(srv, ln, done)

	l.log.RelayEvent("started", l.bound)
	l.publishStatus(true, l.bound)
	return nil
}

func (l *Listener) serve(srv *http.Server, ln net.Listener, done chan struct{}) {
	defer close(done)

	err := srv.Serve(ln)
	if err == nil || errors.Is(err, http.ErrServerClosed) {
		return
	}

	l.log.Error("relay stopped unexpectedly", "error", err)

	l.mu.Lock()
	stale := l.server == srv
	if stale {
		l.server = nil
		l.bound = ""
	}
	l.mu.Unlock()

	if stale {
		l.publishStatus(false, "")
	}
}

// Stop shuts the server down, waiting for in-flight requests up to the
// shutdown timeout, and returns once the accept loop has exited.
// The lock is released before waiting so serve can clear its own state.
func (l *Listener) Stop() error {
	l.mu.Lock()
	if l.server == nil {
		l.mu.Unlock()
		return ErrNotRunning
	}
	srv, done, addr := l.server, l.done, l.bound
	l.server = nil
	l.bound = ""
	l.done = nil
	l.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), l.shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.log.Warn("relay graceful shutdown failed, closing", "error", err)
		srv.Close()
	}
	<-done

	l.log.RelayEvent("stopped", addr)
	l.publishStatus(false, addr)
	return nil
}

// StopAsync stops the listener in the background and reports the result.
// A not-running listener reports ErrNotRunning.
func (l *Listener) StopAsync(callback func(error)) {
	go func() {
		err := l.Stop()
		if callback != nil {
			callback(err)
		}
	}()
}

// Running reports whether the listener is bound.
func (l *Listener) Running() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.server != nil
}

// Addr returns the bound address, or "" when stopped.
func (l *Listener) Addr() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.bound
}

func (l *Listener) publishStatus(running bool, addr string) {
	if l.bus == nil {
		return
	}
	l.bus.Publish(context.Background(), events.ServerStatusChanged{
		BaseEvent: events.NewBaseEvent(),
		Running:   running,
		Addr:      addr,
	})
}

// LocalURL returns the /map endpoint on localhost for port, as used by browser scripts.
func LocalURL(port int) string {
	return "http://" + net.JoinHostPort("localhost", strconv.Itoa(port)) + MapPath
}
