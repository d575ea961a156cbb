package auth

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"

	indexingapi "google.golang.org/api/indexing/v3"
	gscapi "google.golang.org/api/searchconsole/v1"

	"github.com/teemow/searchfewer/internal/accounts"
	"github.com/teemow/searchfewer/internal/indexing"
	"github.com/teemow/searchfewer/internal/instrumentation"
	"github.com/teemow/searchfewer/internal/logging"
	"github.com/teemow/searchfewer/internal/searchconsole"
)

// ExpirySkew is the minimum remaining validity a token must have before
// it is handed out. Tokens closer to expiry than this are refreshed so
// an API call never starts with a token about to lapse mid-request.
const ExpirySkew = 60 * time.Second

// OAuth scopes the provisioned refresh tokens are expected to carry.
var Scopes = []string{
	"https://www.googleapis.com/auth/webmasters",
	"https://www.googleapis.com/auth/indexing",
}

// RefreshError reports that the identity provider rejected or could not
// be reached for a token refresh. It is never retried automatically;
// the caller may retry the whole tool call.
type RefreshError struct {
	Email string
	Err   error
}

func (e *RefreshError) Error() string {
	return fmt.Sprintf("token refresh failed for %s: %v", e.Email, e.Err)
}

func (e *RefreshError) Unwrap() error {
	return e.Err
}

// Config holds the OAuth client used for refresh-token exchanges.
type Config struct {
	ClientID     string
	ClientSecret string

	// TokenURL overrides Google's token endpoint. Used by tests.
	TokenURL string
}

// handle is the cached per-account state: the last-known token and the
// service clients built on top of it. handle.mu serializes refreshes
// for the account.
type handle struct {
	mu     sync.Mutex
	token  *oauth2.Token
	search *searchconsole.Client
	index  *indexing.Client
}

// Manager caches one authenticated client handle per account.
type Manager struct {
	ctx     context.Context
	cfg     Config
	store   *accounts.Store
	logger  *slog.Logger
	metrics *instrumentation.Metrics

	mu      sync.Mutex
	handles map[string]*handle
}

// NewManager creates a Manager. ctx bounds the lifetime of the HTTP
// clients built for the accounts; it should be the server context.
func NewManager(ctx context.Context, cfg Config, store *accounts.Store, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		ctx:     ctx,
		cfg:     cfg,
		store:   store,
		logger:  logger,
		handles: make(map[string]*handle),
	}
}

// SetMetrics attaches a metrics recorder for token refresh accounting.
func (m *Manager) SetMetrics(metrics *instrumentation.Metrics) {
	m.metrics = metrics
}

// Invalidate drops the cached handle for an account. Wired to the
// store's OnReplace hook so re-registration can never serve a client
// seeded with the old credentials.
func (m *Manager) Invalidate(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.handles, id)
}

func (m *Manager) handleFor(id string) *handle {
	m.mu.Lock()
	defer m.mu.Unlock()
	h, ok := m.handles[id]
	if !ok {
		h = &handle{}
		m.handles[id] = h
	}
	return h
}

// Token returns an access token for the account valid for at least
// ExpirySkew from now, refreshing it if needed. A failed refresh
// surfaces as *RefreshError; a stale token is never returned.
func (m *Manager) Token(ctx context.Context, acct accounts.Account) (*oauth2.Token, error) {
	h := m.handleFor(acct.ID)
	h.mu.Lock()
	defer h.mu.Unlock()
	return m.liveTokenLocked(ctx, h, acct)
}

// liveTokenLocked implements the refresh decision. The caller holds
// h.mu, which is what makes refreshes single-flight per account:
// a second caller blocks here and then finds the fresh token.
func (m *Manager) liveTokenLocked(ctx context.Context, h *handle, acct accounts.Account) (*oauth2.Token, error) {
	tok := h.token
	// The store may hold a fresher token than the handle when the
	// account was updated through a path that bypassed this handle.
	if acct.AccessToken != "" && (tok == nil || acct.Expiry.After(tok.Expiry)) {
		tok = &oauth2.Token{
			AccessToken:  acct.AccessToken,
			RefreshToken: acct.RefreshToken,
			TokenType:    "Bearer",
			Expiry:       acct.Expiry,
		}
	}

	if tok != nil && tok.AccessToken != "" && !tok.Expiry.IsZero() && time.Until(tok.Expiry) >= ExpirySkew {
		h.token = tok
		return tok, nil
	}

	fresh, err := m.refresh(ctx, acct)
	if err != nil {
		if m.metrics != nil {
			m.metrics.RecordTokenRefresh(ctx, instrumentation.StatusError)
		}
		return nil, err
	}
	if m.metrics != nil {
		m.metrics.RecordTokenRefresh(ctx, instrumentation.StatusSuccess)
	}

	h.token = fresh
	if !m.store.UpdateToken(acct.ID, fresh.AccessToken, fresh.Expiry) {
		m.logger.Warn("account disappeared during token refresh",
			logging.Account(acct.ID))
	}
	return fresh, nil
}

// refresh exchanges the refresh token for a new access token.
func (m *Manager) refresh(ctx context.Context, acct accounts.Account) (*oauth2.Token, error) {
	seed := &oauth2.Token{RefreshToken: acct.RefreshToken}
	fresh, err := m.oauthConfig().TokenSource(ctx, seed).Token()
	if err != nil {
		m.logger.Warn("token refresh failed",
			logging.Account(acct.ID),
			logging.UserHash(acct.Email),
			logging.Err(err))
		return nil, &RefreshError{Email: acct.Email, Err: err}
	}

	m.logger.Debug("refreshed access token",
		logging.Account(acct.ID),
		logging.UserHash(acct.Email),
		slog.Time("expiry", fresh.Expiry))

	// Google normally omits the refresh token on renewal; keep the one
	// we have so the handle stays self-contained.
	if fresh.RefreshToken == "" {
		fresh.RefreshToken = acct.RefreshToken
	}
	return fresh, nil
}

func (m *Manager) oauthConfig() *oauth2.Config {
	endpoint := google.Endpoint
	if m.cfg.TokenURL != "" {
		endpoint = oauth2.Endpoint{
			TokenURL:  m.cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}
	}
	return &oauth2.Config{
		ClientID:     m.cfg.ClientID,
		ClientSecret: m.cfg.ClientSecret,
		Endpoint:     endpoint,
		Scopes:       Scopes,
	}
}

// accountSource is the oauth2.TokenSource behind each account's HTTP
// client. Routing the transport's token demand back through the Manager
// means a refresh triggered mid-request by the oauth2 layer also writes
// through to the account store.
type accountSource struct {
	m  *Manager
	id string
}

func (s *accountSource) Token() (*oauth2.Token, error) {
	acct, err := s.m.store.Lookup(s.id)
	if err != nil {
		return nil, err
	}
	return s.m.Token(s.m.ctx, acct)
}

// SearchConsole returns the cached Search Console client for the
// account, creating it on first use. The account's token is brought
// live first so the returned client is ready for immediate calls.
func (m *Manager) SearchConsole(ctx context.Context, acct accounts.Account) (*searchconsole.Client, error) {
	if _, err := m.Token(ctx, acct); err != nil {
		return nil, err
	}

	h := m.handleFor(acct.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.search == nil {
		httpClient := oauth2.NewClient(m.ctx, &accountSource{m: m, id: acct.ID})
		svc, err := gscapi.NewService(m.ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create Search Console service for account %s: %w", acct.ID, err)
		}
		h.search = searchconsole.NewClient(svc, acct.ID)
	}
	return h.search, nil
}

// Indexing returns the cached Indexing API client for the account,
// creating it on first use.
func (m *Manager) Indexing(ctx context.Context, acct accounts.Account) (*indexing.Client, error) {
	if _, err := m.Token(ctx, acct); err != nil {
		return nil, err
	}

	h := m.handleFor(acct.ID)
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.index == nil {
		httpClient := oauth2.NewClient(m.ctx, &accountSource{m: m, id: acct.ID})
		svc, err := indexingapi.NewService(m.ctx, option.WithHTTPClient(httpClient))
		if err != nil {
			return nil, fmt.Errorf("failed to create Indexing service for account %s: %w", acct.ID, err)
		}
		h.index = indexing.NewClient(svc, acct.ID)
	}
	return h.index, nil
}
