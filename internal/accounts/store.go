package accounts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

// ErrNoAccounts is returned when a resolution is attempted while no
// accounts are registered at all.
var ErrNoAccounts = errors.New("no accounts configured: provide GSC_REFRESH_TOKEN or GSC_ACCOUNTS, or call register_account")

// NotFoundError is returned when a selector matches neither an account
// id nor an email address.
type NotFoundError struct {
	Selector string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("account %q not found (check list_accounts for registered ids and emails)", e.Selector)
}

// Account is a snapshot of a registered account. The refresh token is
// long-lived; the access token and expiry change whenever a refresh
// writes through via UpdateToken.
type Account struct {
	ID           string
	Email        string
	RefreshToken string
	AccessToken  string
	Expiry       time.Time
}

// record is the single owned copy of an account's state. Both key maps
// point at the same record; public methods hand out value copies.
type record struct {
	account Account
}

// Store is the process-wide account registry. It indexes records by id
// and by lowercased email, both pointing at the same backing record.
type Store struct {
	mu        sync.RWMutex
	byID      map[string]*record
	byEmail   map[string]*record
	onReplace func(id string)
}

// NewStore creates an empty account store.
func NewStore() *Store {
	return &Store{
		byID:    make(map[string]*record),
		byEmail: make(map[string]*record),
	}
}

// OnReplace sets a hook invoked with the account id whenever Register
// replaces an existing record under that id or takes over its email.
// The client cache uses this to drop stale handles. The hook runs while
// the store lock is held, so it must not call back into the Store.
func (s *Store) OnReplace(fn func(id string)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onReplace = fn
}

// Register inserts or overwrites the account under both keys. The
// access token is optional; its expiry is unknown at registration time,
// so the first use triggers a refresh unless a later UpdateToken set
// one. Registering the same tuple twice is a no-op apart from handle
// invalidation.
func (s *Store) Register(id, email, refreshToken, accessToken string) error {
	if id == "" {
		return errors.New("account id must not be empty")
	}
	if email == "" {
		return errors.New("account email must not be empty")
	}
	if refreshToken == "" {
		return errors.New("account refresh token must not be empty")
	}

	key := strings.ToLower(email)

	s.mu.Lock()
	defer s.mu.Unlock()

	var replaced []string

	if old, ok := s.byID[id]; ok {
		replaced = append(replaced, id)
		delete(s.byEmail, strings.ToLower(old.account.Email))
	}
	if old, ok := s.byEmail[key]; ok && old.account.ID != id {
		// Another account owned this email; it loses the email key and
		// its cached client.
		replaced = append(replaced, old.account.ID)
		delete(s.byID, old.account.ID)
	}

	rec := &record{account: Account{
		ID:           id,
		Email:        email,
		RefreshToken: refreshToken,
		AccessToken:  accessToken,
	}}
	s.byID[id] = rec
	s.byEmail[key] = rec

	if s.onReplace != nil {
		for _, rid := range replaced {
			s.onReplace(rid)
		}
	}
	return nil
}

// UpdateToken writes a freshly minted access token and its expiry into
// the account record. This is the refresh write-through path and the
// only mutation besides Register. Returns false if the id is no longer
// registered (the account was replaced while a refresh was in flight).
func (s *Store) UpdateToken(id, accessToken string, expiry time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.byID[id]
	if !ok {
		return false
	}
	rec.account.AccessToken = accessToken
	rec.account.Expiry = expiry
	return true
}

// Lookup returns the account registered under the given id (exact) or
// email (case-insensitive).
func (s *Store) Lookup(selector string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lookupLocked(selector)
}

func (s *Store) lookupLocked(selector string) (Account, error) {
	if rec, ok := s.byID[selector]; ok {
		return rec.account, nil
	}
	if rec, ok := s.byEmail[strings.ToLower(selector)]; ok {
		return rec.account, nil
	}
	return Account{}, &NotFoundError{Selector: selector}
}

// Resolve picks the account to operate on. An empty selector picks the
// account with the lexicographically smallest id, which keeps the
// default deterministic regardless of registration order; with zero
// accounts it fails with ErrNoAccounts.
func (s *Store) Resolve(selector string) (Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if selector != "" {
		return s.lookupLocked(selector)
	}
	if len(s.byID) == 0 {
		return Account{}, ErrNoAccounts
	}
	first := ""
	for id := range s.byID {
		if first == "" || id < first {
			first = id
		}
	}
	return s.byID[first].account, nil
}

// List returns all distinct accounts sorted by id.
func (s *Store) List() []Account {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Account, 0, len(s.byID))
	for _, rec := range s.byID {
		out = append(out, rec.account)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Len returns the number of distinct registered accounts.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
