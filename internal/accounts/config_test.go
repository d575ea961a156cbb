package accounts

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestLoadFromEnvInlinePair(t *testing.T) {
	t.Setenv(EnvRefreshToken, "rt-inline")
	t.Setenv(EnvAccountEmail, "me@example.com")
	t.Setenv(EnvAccounts, "")
	t.Setenv(EnvAccountsFile, "")

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 1 {
		t.Fatalf("LoadFromEnv() = %d, want 1", got)
	}

	acct, err := s.Resolve("")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if acct.ID != DefaultAccountID || acct.Email != "me@example.com" || acct.RefreshToken != "rt-inline" {
		t.Errorf("unexpected account: %+v", acct)
	}
}

func TestLoadFromEnvInlinePairWithoutEmail(t *testing.T) {
	t.Setenv(EnvRefreshToken, "rt-inline")
	t.Setenv(EnvAccountEmail, "")
	t.Setenv(EnvAccounts, "")
	t.Setenv(EnvAccountsFile, "")

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 0 {
		t.Errorf("LoadFromEnv() = %d, want 0: token without email must be skipped", got)
	}
}

func TestLoadFromEnvBulkDocument(t *testing.T) {
	t.Setenv(EnvRefreshToken, "")
	t.Setenv(EnvAccountsFile, "")
	t.Setenv(EnvAccounts, `{"accounts":[
		{"id":"personal","email":"me@gmail.com","refreshToken":"rt-p"},
		{"id":"work","email":"me@company.com","refreshToken":"rt-w","accessToken":"at-w"}
	]}`)

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 2 {
		t.Fatalf("LoadFromEnv() = %d, want 2", got)
	}

	acct, err := s.Lookup("work")
	if err != nil {
		t.Fatalf("Lookup(work) error = %v", err)
	}
	if acct.AccessToken != "at-w" {
		t.Errorf("access token not carried from config: %+v", acct)
	}
}

func TestLoadFromEnvSkipsMalformedEntries(t *testing.T) {
	t.Setenv(EnvRefreshToken, "")
	t.Setenv(EnvAccountsFile, "")
	// Second entry is missing its refresh token; third is missing the email.
	t.Setenv(EnvAccounts, `{"accounts":[
		{"id":"good","email":"ok@example.com","refreshToken":"rt"},
		{"id":"bad","email":"bad@example.com"},
		{"id":"worse","refreshToken":"rt"}
	]}`)

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 1 {
		t.Fatalf("LoadFromEnv() = %d, want 1 (malformed entries skipped)", got)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestLoadFromEnvUnparsableDocumentIsEmpty(t *testing.T) {
	t.Setenv(EnvRefreshToken, "")
	t.Setenv(EnvAccountsFile, "")
	t.Setenv(EnvAccounts, `{not json`)

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 0 {
		t.Errorf("LoadFromEnv() = %d, want 0", got)
	}
	// The process still starts; resolution reports the precondition.
	if _, err := s.Resolve(""); err != ErrNoAccounts {
		t.Errorf("Resolve() error = %v, want ErrNoAccounts", err)
	}
}

func TestLoadFromEnvAccountsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "accounts.json")
	doc := `{"accounts":[{"id":"filed","email":"filed@example.com","refreshToken":"rt-f"}]}`
	if err := os.WriteFile(path, []byte(doc), 0600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	t.Setenv(EnvRefreshToken, "")
	t.Setenv(EnvAccounts, "")
	t.Setenv(EnvAccountsFile, path)

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 1 {
		t.Fatalf("LoadFromEnv() = %d, want 1", got)
	}
	if _, err := s.Lookup("filed@example.com"); err != nil {
		t.Errorf("Lookup() error = %v", err)
	}
}

func TestLoadFromEnvMissingFileIsEmpty(t *testing.T) {
	t.Setenv(EnvRefreshToken, "")
	t.Setenv(EnvAccounts, "")
	t.Setenv(EnvAccountsFile, filepath.Join(t.TempDir(), "does-not-exist.json"))

	s := NewStore()
	if got := LoadFromEnv(s, discardLogger()); got != 0 {
		t.Errorf("LoadFromEnv() = %d, want 0", got)
	}
}
