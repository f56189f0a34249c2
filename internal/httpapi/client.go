package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"post_syncer/internal/domain"
)

// Client issues sync steps against a remote Server.
type Client struct {
	httpClient *http.Client
	stepURL    string
	logger     *slog.Logger
}

func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		stepURL:    strings.TrimRight(baseURL, "/") + StepPath,
		logger:     logger.With("component", "step_client"),
	}
}

// Step posts one step request. Failures come back as the same error types
// the in-process engine returns so callers can apply one retry policy.
func (c *Client) Step(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode step request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.stepURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &domain.TransportError{URL: c.stepURL, Err: err}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{URL: c.stepURL, Err: err}
	}

	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		if resp.StatusCode != http.StatusOK {
			return nil, &domain.RemoteError{URL: c.stepURL, StatusCode: resp.StatusCode}
		}
		return nil, &domain.InvalidResponseError{URL: c.stepURL, Err: err}
	}

	if !env.Success || resp.StatusCode != http.StatusOK {
		return nil, c.stepError(resp.StatusCode, env.Data)
	}

	var result domain.StepResult
	if err := json.Unmarshal(env.Data, &result); err != nil {
		return nil, &domain.InvalidResponseError{URL: c.stepURL, Err: err}
	}
	return &result, nil
}

func (c *Client) stepError(status int, raw json.RawMessage) error {
	var data ErrorData
	_ = json.Unmarshal(raw, &data)

	if data.Trace != "" {
		return &domain.InternalError{
			Message: strings.TrimPrefix(data.Message, "Error: "),
			Stack:   data.Trace,
		}
	}

	remoteErr := &domain.RemoteError{URL: c.stepURL, StatusCode: status}
	if data.Message == "" {
		return remoteErr
	}
	return fmt.Errorf("%s: %w", data.Message, remoteErr)
}
