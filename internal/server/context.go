package server

import (
	"context"
	"log/slog"
	"sync"

	"github.com/teemow/searchfewer/internal/accounts"
	"github.com/teemow/searchfewer/internal/auth"
	"github.com/teemow/searchfewer/internal/instrumentation"
)

// ServerContext holds the shared state for the MCP server: the account
// store, the token manager, and the observability plumbing.
type ServerContext struct {
	ctx         context.Context
	cancel      context.CancelFunc
	accounts    *accounts.Store
	auth        *auth.Manager
	logger      *slog.Logger
	metrics     *instrumentation.Metrics
	auditLogger *instrumentation.AuditLogger
	mu          sync.RWMutex
	shutdown    bool
}

// NewServerContext creates a new server context. Re-registering an
// account through the store invalidates the manager's cached clients
// for it.
func NewServerContext(ctx context.Context, authCfg auth.Config, logger *slog.Logger) *ServerContext {
	shutdownCtx, cancel := context.WithCancel(ctx)

	if logger == nil {
		logger = slog.Default()
	}

	store := accounts.NewStore()
	manager := auth.NewManager(shutdownCtx, authCfg, store, logger)
	store.OnReplace(manager.Invalidate)

	return &ServerContext{
		ctx:      shutdownCtx,
		cancel:   cancel,
		accounts: store,
		auth:     manager,
		logger:   logger,
	}
}

// Context returns the server context
func (sc *ServerContext) Context() context.Context {
	return sc.ctx
}

// Accounts returns the credential store.
func (sc *ServerContext) Accounts() *accounts.Store {
	return sc.accounts
}

// Auth returns the token manager and client cache.
func (sc *ServerContext) Auth() *auth.Manager {
	return sc.auth
}

// Logger returns the structured logger.
func (sc *ServerContext) Logger() *slog.Logger {
	return sc.logger
}

// SetMetrics attaches a metrics recorder. Call before serving.
func (sc *ServerContext) SetMetrics(metrics *instrumentation.Metrics) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.metrics = metrics
	sc.auth.SetMetrics(metrics)
}

// Metrics returns the metrics recorder, or nil if none is attached.
func (sc *ServerContext) Metrics() *instrumentation.Metrics {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.metrics
}

// SetAuditLogger attaches an audit logger. Call before serving.
func (sc *ServerContext) SetAuditLogger(auditLogger *instrumentation.AuditLogger) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.auditLogger = auditLogger
}

// AuditLogger returns the audit logger, or nil if none is attached.
func (sc *ServerContext) AuditLogger() *instrumentation.AuditLogger {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.auditLogger
}

// IsShutdown returns whether the server has been shutdown
func (sc *ServerContext) IsShutdown() bool {
	sc.mu.RLock()
	defer sc.mu.RUnlock()
	return sc.shutdown
}

// Shutdown shuts down the server context
func (sc *ServerContext) Shutdown() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	if sc.shutdown {
		return nil
	}

	sc.shutdown = true
	sc.cancel()
	return nil
}
