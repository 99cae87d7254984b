package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"

	"github.com/Mavwarf/appicon/internal/httputil"
)

// Payload is the JSON body announcing a finished run.
type Payload struct {
	Status     string   `json:"status"` // "ok" | "error"
	Message    string   `json:"message"`
	Input      string   `json:"input"`
	Output     string   `json:"output"`
	Files      []string `json:"files,omitempty"`
	Normalized bool     `json:"normalized"`
	DurationMS int64    `json:"duration_ms"`
	Error      string   `json:"error,omitempty"`
}

// Send posts p to url as JSON. Custom headers are applied after the
// default Content-Type, so callers can override it. Header values are
// expanded with os.ExpandEnv to support $VAR secrets.
func Send(ctx context.Context, url string, p Payload, headers map[string]string) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webhook: encode: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("webhook: new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, os.ExpandEnv(v))
	}

	resp, err := httputil.Client.Do(req)
	if err != nil {
		return fmt.Errorf("webhook: post: %w", err)
	}
	defer resp.Body.Close()

	return httputil.CheckStatus(resp, "webhook")
}
