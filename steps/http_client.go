package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/drewbarontini/system-runner/builder"
	"github.com/drewbarontini/system-runner/config"
	"github.com/drewbarontini/system-runner/models"
)

// defaultHTTPClient is shared by every http_client step
var defaultHTTPClient = &http.Client{
	Timeout: 30 * time.Second,
}

type HTTPClientStep struct {
	urlSpec      config.ValueSpec
	methodSpec   config.ValueSpec
	headers      map[string]config.ValueSpec
	bodySpec     config.ValueSpec
	contentType  string
	responseType string
	into         string
	client       *http.Client
}

type HTTPClientResponse struct {
	StatusCode int               `json:"statusCode"`
	Headers    map[string]string `json:"headers"`
	Body       any               `json:"body"`
}

// HTTPStatusError is returned for non-2xx responses
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("HTTP request failed with status %d: %s", e.StatusCode, e.Body)
}

func (s *HTTPClientStep) Run(ctx context.Context, scope *models.Scope) error {
	urlResolved, err := s.urlSpec.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve URL: %w", err)
	}
	target := fmt.Sprintf("%v", urlResolved)

	methodResolved, err := s.methodSpec.Resolve(scope)
	if err != nil {
		return fmt.Errorf("failed to resolve method: %w", err)
	}
	method := fmt.Sprintf("%v", methodResolved)

	var bodyReader io.Reader
	if s.bodySpec != nil {
		bodyData, err := s.bodySpec.Resolve(scope)
		if err != nil {
			return fmt.Errorf("failed to resolve body: %w", err)
		}

		bodyBytes, err := serializeBody(bodyData, s.contentType)
		if err != nil {
			return fmt.Errorf("failed to serialize body: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, bodyReader)
	if err != nil {
		return fmt.Errorf("failed to create HTTP request: %w", err)
	}

	for key, spec := range s.headers {
		value, err := spec.Resolve(scope)
		if err != nil {
			return fmt.Errorf("failed to resolve header '%s': %w", key, err)
		}
		req.Header.Set(key, fmt.Sprintf("%v", value))
	}

	if bodyReader != nil && s.contentType != "" {
		req.Header.Set("Content-Type", s.contentType)
	}

	client := s.client
	if client == nil {
		client = defaultHTTPClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &HTTPStatusError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	response := &HTTPClientResponse{
		StatusCode: resp.StatusCode,
		Headers:    make(map[string]string, len(resp.Header)),
	}

	// First value only
	for key, values := range resp.Header {
		if len(values) > 0 {
			response.Headers[key] = values[0]
		}
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	switch s.responseType {
	case "json":
		var bodyData any
		if len(bodyBytes) > 0 {
			if err := json.Unmarshal(bodyBytes, &bodyData); err != nil {
				return fmt.Errorf("failed to decode JSON response: %w", err)
			}
		}
		response.Body = bodyData
	default:
		response.Body = string(bodyBytes)
	}

	scope.Set(targetKey(s.into, scope), response)
	return nil
}

// serializeBody encodes the body according to the content type
func serializeBody(body any, contentType string) ([]byte, error) {
	switch contentType {
	case "application/x-www-form-urlencoded":
		fields, ok := body.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("form body must be an object, got %T", body)
		}
		form := url.Values{}
		for k, v := range fields {
			form.Set(k, fmt.Sprintf("%v", v))
		}
		return []byte(form.Encode()), nil
	case "text/plain":
		return []byte(fmt.Sprintf("%v", body)), nil
	default:
		return json.Marshal(body)
	}
}

func init() {
	builder.RegisterActionType("http_client", "Performs an HTTP request and stores the response", func(cfg map[string]any) (models.Action, error) {
		urlRaw, ok := cfg["url"]
		if !ok {
			return nil, models.ErrMissingConfig("url")
		}

		methodRaw, ok := cfg["method"]
		if !ok {
			methodRaw = http.MethodGet
		}

		headers := make(map[string]config.ValueSpec)
		if raw, ok := cfg["headers"]; ok && raw != nil {
			headerMap, ok := raw.(map[string]any)
			if !ok {
				return nil, models.ErrInvalidConfig("headers", fmt.Sprintf("must be a map, got %T", raw))
			}
			for k, v := range headerMap {
				headers[k] = valueSpec(v)
			}
		}

		responseType, err := stringConfig(cfg, "response", "json")
		if err != nil {
			return nil, err
		}
		if responseType != "json" && responseType != "text" {
			return nil, models.ErrInvalidConfig("response", "must be 'json' or 'text'")
		}

		contentType, err := stringConfig(cfg, "content_type", "application/json")
		if err != nil {
			return nil, err
		}

		into, err := stringConfig(cfg, "into", "")
		if err != nil {
			return nil, err
		}

		step := &HTTPClientStep{
			urlSpec:      valueSpec(urlRaw),
			methodSpec:   valueSpec(methodRaw),
			headers:      headers,
			contentType:  contentType,
			responseType: responseType,
			into:         into,
		}
		if bodyRaw := cfg["body"]; bodyRaw != nil {
			step.bodySpec = valueSpec(bodyRaw)
		}

		return step, nil
	})
}
