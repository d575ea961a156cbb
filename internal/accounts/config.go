package accounts

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/teemow/searchfewer/internal/logging"
)

// Environment variables consulted by LoadFromEnv.
const (
	EnvRefreshToken = "GSC_REFRESH_TOKEN"
	EnvAccountEmail = "GSC_ACCOUNT_EMAIL"
	EnvAccounts     = "GSC_ACCOUNTS"
	EnvAccountsFile = "GSC_ACCOUNTS_FILE"
)

// DefaultAccountID is the id assigned to the account configured through
// the single inline GSC_REFRESH_TOKEN / GSC_ACCOUNT_EMAIL pair.
const DefaultAccountID = "default"

// accountsDocument is the bulk provisioning format:
// {"accounts":[{"id":...,"email":...,"refreshToken":...,"accessToken":...}]}
type accountsDocument struct {
	Accounts []accountEntry `json:"accounts"`
}

type accountEntry struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	RefreshToken string `json:"refreshToken"`
	AccessToken  string `json:"accessToken,omitempty"`
}

// LoadFromEnv populates the store from the configured sources: a single
// inline refresh-token/email pair, an inline JSON document, and a
// file-referenced JSON document. Malformed entries are skipped with a
// warning and an unparsable source is treated as empty; a process that
// ends up with zero accounts still starts, and every resolution then
// fails with ErrNoAccounts. Returns the number of accounts loaded.
func LoadFromEnv(store *Store, logger *slog.Logger) int {
	if logger == nil {
		logger = slog.Default()
	}

	loaded := 0

	if token := os.Getenv(EnvRefreshToken); token != "" {
		email := os.Getenv(EnvAccountEmail)
		if email == "" {
			logger.Warn("ignoring inline refresh token: GSC_ACCOUNT_EMAIL is not set")
		} else if err := store.Register(DefaultAccountID, email, token, ""); err != nil {
			logger.Warn("failed to register inline account", logging.Err(err))
		} else {
			logger.Info("registered inline account",
				logging.Account(DefaultAccountID),
				logging.UserHash(email))
			loaded++
		}
	}

	if doc := os.Getenv(EnvAccounts); doc != "" {
		loaded += loadDocument(store, []byte(doc), EnvAccounts, logger)
	}

	if path := os.Getenv(EnvAccountsFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read accounts file, treating as empty",
				slog.String("path", path), logging.Err(err))
		} else {
			loaded += loadDocument(store, data, path, logger)
		}
	}

	return loaded
}

// loadDocument parses one bulk accounts document and registers every
// well-formed entry. Per-entry problems are logged and skipped so one
// bad tuple cannot take down the rest of the source.
func loadDocument(store *Store, data []byte, source string, logger *slog.Logger) int {
	var doc accountsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		logger.Warn("failed to parse accounts document, treating as empty",
			slog.String("source", source), logging.Err(err))
		return 0
	}

	loaded := 0
	for i, entry := range doc.Accounts {
		if err := validateEntry(entry); err != nil {
			logger.Warn("skipping malformed account entry",
				slog.String("source", source),
				slog.Int("index", i),
				logging.Err(err))
			continue
		}
		if err := store.Register(entry.ID, entry.Email, entry.RefreshToken, entry.AccessToken); err != nil {
			logger.Warn("skipping account entry",
				slog.String("source", source),
				slog.Int("index", i),
				logging.Err(err))
			continue
		}
		logger.Info("registered account",
			logging.Account(entry.ID),
			logging.UserHash(entry.Email))
		loaded++
	}
	return loaded
}

func validateEntry(entry accountEntry) error {
	switch {
	case entry.ID == "":
		return fmt.Errorf("missing id")
	case entry.Email == "":
		return fmt.Errorf("missing email for account %q", entry.ID)
	case entry.RefreshToken == "":
		return fmt.Errorf("missing refreshToken for account %q", entry.ID)
	}
	return nil
}
