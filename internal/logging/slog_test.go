package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestAnonymizeEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
	}{
		{"regular email", "user@example.com"},
		{"another email", "admin@company.org"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AnonymizeEmail(tt.email)
			if !strings.HasPrefix(got, "user:") {
				t.Errorf("AnonymizeEmail() = %v, want user: prefix", got)
			}
			if strings.Contains(got, tt.email) {
				t.Errorf("AnonymizeEmail() leaked the email: %v", got)
			}
			// Same input must always hash to the same value for correlation
			if again := AnonymizeEmail(tt.email); again != got {
				t.Errorf("AnonymizeEmail() not deterministic: %v != %v", got, again)
			}
		})
	}

	if got := AnonymizeEmail(""); got != "" {
		t.Errorf("AnonymizeEmail(\"\") = %v, want empty", got)
	}

	if AnonymizeEmail("a@example.com") == AnonymizeEmail("b@example.com") {
		t.Error("different emails should hash differently")
	}
}

func TestSanitizeToken(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"empty", "", "<empty>"},
		{"short", "abc", "[token:3 chars]"},
		{"long", strings.Repeat("x", 128), "[token:128 chars]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeToken(tt.token); got != tt.want {
				t.Errorf("SanitizeToken() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestExtractDomain(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  string
	}{
		{"regular", "user@example.com", "example.com"},
		{"empty", "", ""},
		{"no at sign", "not-an-email", ""},
		{"multiple at signs", "a@b@c", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractDomain(tt.email); got != tt.want {
				t.Errorf("ExtractDomain() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrNilSafe(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("message", Err(nil))
	if strings.Contains(buf.String(), "error=") {
		t.Errorf("Err(nil) should not emit an error attribute, got %q", buf.String())
	}
}

func TestAttributeHelpers(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	logger.Info("query",
		Operation("searchconsole.query"),
		Account("work"),
		Site("https://example.com/"),
		Status(StatusSuccess),
	)

	out := buf.String()
	for _, want := range []string{
		"operation=searchconsole.query",
		"account=work",
		"site=https://example.com/",
		"status=success",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q: %s", want, out)
		}
	}
}

func TestWithHelpers(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	WithTool(WithAccount(base, "default"), "search_analytics").Info("invoked")

	out := buf.String()
	if !strings.Contains(out, "account=default") || !strings.Contains(out, "tool=search_analytics") {
		t.Errorf("derived logger missing attributes: %s", out)
	}
}
