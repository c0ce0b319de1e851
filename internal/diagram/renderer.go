package diagram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// Renderer turns a drawing instruction into an opaque reference (a URL)
// to attach to a question. Rendering is best-effort: callers log
// failures and keep the question without its diagram.
type Renderer interface {
	Render(ctx context.Context, instruction string) (string, error)
}

// HTTPRenderer posts instructions to an external diagram service.
type HTTPRenderer struct {
	endpoint string
	client   *http.Client
}

func NewHTTPRenderer(endpoint string) *HTTPRenderer {
	return &HTTPRenderer{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type renderRequest struct {
	Instruction string `json:"instruction"`
}

type renderResponse struct {
	URL string `json:"url"`
}

func (r *HTTPRenderer) Render(ctx context.Context, instruction string) (string, error) {
	body, err := json.Marshal(renderRequest{Instruction: instruction})
	if err != nil {
		return "", fmt.Errorf("marshal render request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build render request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("render call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("render service returned status %d", resp.StatusCode)
	}

	var out renderResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode render response: %w", err)
	}
	if out.URL == "" {
		return "", fmt.Errorf("render service returned empty url")
	}
	return out.URL, nil
}
