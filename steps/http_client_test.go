package steps

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

func newTestScope() *models.Scope {
	return &models.Scope{
		RunID:  "run_test",
		StepID: "fetch",
		Input:  map[string]any{},
		State:  map[string]any{},
	}
}

func TestHTTPClientStep_SimpleGET(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("Expected GET request, got %s", r.Method)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"message": "success"})
	}))
	defer server.Close()

	step := &HTTPClientStep{
		urlSpec:      config.StaticValue{Value: server.URL},
		methodSpec:   config.StaticValue{Value: "GET"},
		responseType: "json",
	}

	scope := newTestScope()
	if err := step.Run(context.Background(), scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	// Stored under the step ID when 'into' is not set
	value, ok := scope.Get("fetch")
	if !ok {
		t.Fatal("Expected response stored under step ID")
	}
	resp, ok := value.(*HTTPClientResponse)
	if !ok {
		t.Fatalf("Expected *HTTPClientResponse, got %T", value)
	}

	if resp.StatusCode != 200 {
		t.Errorf("Expected status code 200, got %d", resp.StatusCode)
	}
	if resp.Headers["Content-Type"] != "application/json" {
		t.Errorf("Expected JSON content type header, got %q", resp.Headers["Content-Type"])
	}

	bodyMap, ok := resp.Body.(map[string]any)
	if !ok {
		t.Fatal("Expected body to be map[string]any")
	}
	if bodyMap["message"] != "success" {
		t.Errorf("Expected message 'success', got %v", bodyMap["message"])
	}
}

func TestHTTPClientStep_POSTWithBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST request, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("Expected Content-Type application/json, got %s", ct)
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("Failed to decode request body: %v", err)
		}
		if body["name"] != "weekly" {
			t.Errorf("Expected name 'weekly', got %v", body["name"])
		}

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]any{"id": 7})
	}))
	defer server.Close()

	action, err := builder.CreateAction("http_client", map[string]any{
		"url":    server.URL,
		"method": "POST",
		"body":   map[string]any{"name": "weekly"},
		"into":   "created",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	scope := newTestScope()
	if err := action.Run(context.Background(), scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	value, _ := scope.Get("created")
	resp := value.(*HTTPClientResponse)
	if resp.StatusCode != http.StatusCreated {
		t.Errorf("Expected status 201, got %d", resp.StatusCode)
	}
	if resp.Body.(map[string]any)["id"] != float64(7) {
		t.Errorf("Expected id 7, got %v", resp.Body)
	}
}

func TestHTTPClientStep_WithDynamicURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/projects/42" {
			t.Errorf("Expected path /projects/42, got %s", r.URL.Path)
		}
		io.WriteString(w, "ok")
	}))
	defer server.Close()

	action, err := builder.CreateAction("http_client", map[string]any{
		"url":      "$js: $vars.base + '/projects/' + input.project",
		"response": "text",
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	scope := newTestScope()
	scope.Input["project"] = 42
	scope.Variables = map[string]any{"base": server.URL}

	if err := action.Run(context.Background(), scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	value, _ := scope.Get("fetch")
	if body := value.(*HTTPClientResponse).Body; body != "ok" {
		t.Errorf("Expected body 'ok', got %v", body)
	}
}

func TestHTTPClientStep_ErrorOnNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		io.WriteString(w, "network down")
	}))
	defer server.Close()

	action, err := builder.CreateAction("http_client", map[string]any{"url": server.URL})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	scope := newTestScope()
	err = action.Run(context.Background(), scope)

	var statusErr *HTTPStatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Expected *HTTPStatusError, got %v", err)
	}
	if statusErr.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503, got %d", statusErr.StatusCode)
	}
	if statusErr.Body != "network down" {
		t.Errorf("Expected body 'network down', got %q", statusErr.Body)
	}
	if _, ok := scope.Get("fetch"); ok {
		t.Error("Failed request should not write to the state")
	}
}

func TestHTTPClientStep_WithHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer s3cret" {
			t.Errorf("Expected Authorization header from secret, got %q", got)
		}
		if got := r.Header.Get("X-Routine"); got != "weekly-sync" {
			t.Errorf("Expected X-Routine header, got %q", got)
		}
		io.WriteString(w, "{}")
	}))
	defer server.Close()

	action, err := builder.CreateAction("http_client", map[string]any{
		"url": server.URL,
		"headers": map[string]any{
			"Authorization": "$js: 'Bearer ' + $secrets.token",
			"X-Routine":     "weekly-sync",
		},
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	scope := newTestScope()
	scope.Secrets = map[string]any{"token": "s3cret"}
	if err := action.Run(context.Background(), scope); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestHTTPClientStep_FormBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("Failed to parse form: %v", err)
		}
		if r.PostForm.Get("status") != "on-track" {
			t.Errorf("Expected status form field, got %v", r.PostForm)
		}
		io.WriteString(w, "null")
	}))
	defer server.Close()

	action, err := builder.CreateAction("http_client", map[string]any{
		"url":          server.URL,
		"method":       "POST",
		"content_type": "application/x-www-form-urlencoded",
		"body":         map[string]any{"status": "on-track"},
	})
	if err != nil {
		t.Fatalf("Failed to create action: %v", err)
	}

	if err := action.Run(context.Background(), newTestScope()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
}

func TestHTTPClientStep_InvalidConfig(t *testing.T) {
	tests := []struct {
		name string
		cfg  map[string]any
	}{
		{"missing url", map[string]any{}},
		{"bad response type", map[string]any{"url": "http://localhost", "response": "xml"}},
		{"bad headers", map[string]any{"url": "http://localhost", "headers": "nope"}},
		{"bad into", map[string]any{"url": "http://localhost", "into": 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := builder.CreateAction("http_client", tt.cfg); err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
