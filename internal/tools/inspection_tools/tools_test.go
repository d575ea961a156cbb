package inspection_tools

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/teemow/searchfewer/internal/auth"
	"github.com/teemow/searchfewer/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	sc := server.NewServerContext(context.Background(), auth.Config{}, slog.New(slog.DiscardHandler))
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	req := mcp.CallToolRequest{}
	req.Params.Arguments = args
	return req
}

func errorText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if !result.IsError {
		t.Fatal("expected a tool error result")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want TextContent", result.Content[0])
	}
	return text.Text
}

func TestHandleInspectURL_Validation(t *testing.T) {
	sc := newTestServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{
			name:    "missing siteUrl",
			args:    map[string]interface{}{"inspectionUrl": "https://example.com/page"},
			wantErr: "siteUrl is required",
		},
		{
			name:    "missing inspectionUrl",
			args:    map[string]interface{}{"siteUrl": "https://example.com/"},
			wantErr: "inspectionUrl is required",
		},
		{
			name: "relative inspectionUrl",
			args: map[string]interface{}{
				"siteUrl":       "https://example.com/",
				"inspectionUrl": "/page",
			},
			wantErr: "absolute URL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleInspectURL(context.Background(), callRequest(tt.args), sc)
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if text := errorText(t, result); !strings.Contains(text, tt.wantErr) {
				t.Errorf("error = %q, want contains %q", text, tt.wantErr)
			}
		})
	}
}

func TestHandleInspectURL_NoAccounts(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleInspectURL(context.Background(), callRequest(map[string]interface{}{
		"siteUrl":       "https://example.com/",
		"inspectionUrl": "https://example.com/page",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if text := errorText(t, result); !strings.Contains(text, "no accounts registered") {
		t.Errorf("error = %q", text)
	}
}

func TestHandleSubmitURLForIndexing_Validation(t *testing.T) {
	sc := newTestServerContext(t)

	tests := []struct {
		name    string
		args    map[string]interface{}
		wantErr string
	}{
		{
			name:    "missing url",
			args:    map[string]interface{}{},
			wantErr: "url is required",
		},
		{
			name:    "relative url",
			args:    map[string]interface{}{"url": "/jobs/123"},
			wantErr: "absolute URL",
		},
		{
			name: "bad type",
			args: map[string]interface{}{
				"url":  "https://example.com/jobs/123",
				"type": "URL_CREATED",
			},
			wantErr: "type must be URL_UPDATED or URL_DELETED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := handleSubmitURLForIndexing(context.Background(), callRequest(tt.args), sc)
			if err != nil {
				t.Fatalf("handler error = %v", err)
			}
			if text := errorText(t, result); !strings.Contains(text, tt.wantErr) {
				t.Errorf("error = %q, want contains %q", text, tt.wantErr)
			}
		})
	}
}

func TestHandleSubmitURLForIndexing_NoAccounts(t *testing.T) {
	sc := newTestServerContext(t)

	result, err := handleSubmitURLForIndexing(context.Background(), callRequest(map[string]interface{}{
		"url": "https://example.com/jobs/123",
	}), sc)
	if err != nil {
		t.Fatalf("handler error = %v", err)
	}
	if text := errorText(t, result); !strings.Contains(text, "no accounts registered") {
		t.Errorf("error = %q", text)
	}
}
