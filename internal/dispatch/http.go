package dispatch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// HTTP posts records as JSON to {endpoint}/{table} on a hosted collector.
type HTTP struct {
	endpoint string
	client   *http.Client
}

// HTTPOption configures an HTTP dispatcher.
type HTTPOption func(*HTTP)

// WithHTTPClient overrides the underlying client (tests inject a transport).
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(d *HTTP) {
		if client != nil {
			d.client = client
		}
	}
}

func NewHTTP(endpoint string, opts ...HTTPOption) *HTTP {
	d := &HTTP{
		endpoint: strings.TrimRight(endpoint, "/"),
		client:   &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *HTTP) Dispatch(ctx context.Context, table string, record map[string]any) error {
	start := time.Now()
	defer func() {
		dispatchDurationMs.WithLabelValues("http").Observe(float64(time.Since(start).Microseconds()) / 1000.0)
	}()

	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.endpoint+"/"+table, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build collector request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fmt.Errorf("collector unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep only a short excerpt; collector error pages can be large.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 256))
		return fmt.Errorf("collector returned %d: %s", resp.StatusCode, strings.TrimSpace(string(excerpt)))
	}
	return nil
}
