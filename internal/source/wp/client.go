package wp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"post_syncer/internal/domain"
)

const (
	apiPrefix       = "wp-json/"
	publicMediaPath = "sync-posts/v1/public-media/"
	afterLayout     = "2006-01-02T00:00:00"

	HeaderTotal      = "X-WP-Total"
	HeaderTotalPages = "X-WP-TotalPages"

	userAgent = "PostSyncer/1.0"
)

// Config holds source client configuration.
type Config struct {
	BaseURL           string
	Namespace         string
	PerPage           int
	After             *time.Time
	Timeout           time.Duration
	RequestsPerSecond float64
}

// Client talks to a WordPress-compatible REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	namespace  string
	perPage    int
	after      *time.Time
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// New creates a new source client.
func New(cfg Config, logger *slog.Logger) *Client {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   NormalizeBaseURL(cfg.BaseURL),
		namespace: strings.Trim(cfg.Namespace, "/"),
		perPage:   cfg.PerPage,
		after:     cfg.After,
		limiter:   rate.NewLimiter(limit, 1),
		logger:    logger.With("component", "source", "base_url", cfg.BaseURL),
	}
}

// NormalizeBaseURL makes sure the URL ends with exactly one slash.
func NormalizeBaseURL(raw string) string {
	return strings.TrimRight(raw, "/") + "/"
}

// BaseURL returns the normalized source URL, used as the provenance key.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Namespace returns the API namespace, e.g. "wp/v2".
func (c *Client) Namespace() string {
	return c.namespace
}

// CollectionURL builds the URL of a collection endpoint without query.
func (c *Client) CollectionURL(collectionPath string) string {
	return c.baseURL + apiPrefix + c.namespace + "/" + strings.Trim(collectionPath, "/")
}

// FetchPage fetches one page of a collection.
func (c *Client) FetchPage(ctx context.Context, collectionPath string, page int) (*domain.Page, error) {
	q := url.Values{}
	q.Set("per_page", strconv.Itoa(c.perPage))
	q.Set("page", strconv.Itoa(page))
	q.Set("_embed", "true")
	if c.after != nil {
		q.Set("after", c.after.Format(afterLayout))
	}

	reqURL := c.CollectionURL(collectionPath) + "?" + q.Encode()
	c.logger.Debug("fetching page", "url", reqURL)

	resp, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &domain.TransportError{URL: reqURL, Err: fmt.Errorf("read body: %w", err)}
	}

	// A JSON object (e.g. an error envelope) must not pass as an empty page.
	trimmed := strings.TrimSpace(string(body))
	if !strings.HasPrefix(trimmed, "[") {
		return nil, &domain.InvalidResponseError{URL: reqURL, Err: errors.New("body is not a JSON array")}
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, &domain.InvalidResponseError{URL: reqURL, Err: err}
	}

	records, rejected := decodeRecords(reqURL, raw)
	for _, rej := range rejected {
		c.logger.Warn("skipping undecodable record", "url", reqURL, "source_id", rej.SourceID, "error", rej.Reason)
	}

	totalCount, _ := strconv.Atoi(resp.Header.Get(HeaderTotal))
	totalPages, _ := strconv.Atoi(resp.Header.Get(HeaderTotalPages))
	if totalPages <= 0 {
		totalPages = 1
	}

	c.logger.Debug("fetched page",
		"collection", collectionPath,
		"page", page,
		"records", len(records),
		"total_pages", totalPages,
	)

	return &domain.Page{
		Records:    records,
		Rejected:   rejected,
		TotalCount: totalCount,
		TotalPages: totalPages,
	}, nil
}

// decodeRecords decodes each array element on its own so one malformed
// record only costs itself.
func decodeRecords(reqURL string, raw []json.RawMessage) ([]domain.RemoteRecord, []domain.RecordReconcileError) {
	records := make([]domain.RemoteRecord, 0, len(raw))
	var rejected []domain.RecordReconcileError

	for _, item := range raw {
		var record domain.RemoteRecord
		if err := json.Unmarshal(item, &record); err != nil {
			var head struct {
				ID int64 `json:"id"`
			}
			_ = json.Unmarshal(item, &head)
			rejected = append(rejected, domain.RecordReconcileError{
				SourceID: head.ID,
				Reason:   &domain.InvalidResponseError{URL: reqURL, Err: err},
			})
			continue
		}
		records = append(records, record)
	}
	return records, rejected
}

// FetchRecord fetches a single record of a collection as raw fields.
func (c *Client) FetchRecord(ctx context.Context, collectionPath string, id int64, query url.Values) (map[string]json.RawMessage, error) {
	reqURL := c.CollectionURL(collectionPath) + "/" + strconv.FormatInt(id, 10)
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	resp, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var fields map[string]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&fields); err != nil {
		return nil, &domain.InvalidResponseError{URL: reqURL, Err: err}
	}
	return fields, nil
}

// FetchPublicMediaDescriptor fetches the minimal public view of one attachment.
func (c *Client) FetchPublicMediaDescriptor(ctx context.Context, mediaID int64) (*domain.MediaDescriptor, error) {
	reqURL := c.baseURL + apiPrefix + publicMediaPath + strconv.FormatInt(mediaID, 10)

	resp, err := c.get(ctx, reqURL, "application/json")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var desc domain.MediaDescriptor
	if err := json.NewDecoder(resp.Body).Decode(&desc); err != nil {
		return nil, &domain.InvalidResponseError{URL: reqURL, Err: err}
	}
	if desc.SourceURL == "" {
		return nil, &domain.InvalidResponseError{URL: reqURL, Err: errors.New("missing source_url")}
	}
	return &desc, nil
}

// Download writes the binary at fileURL to a temporary file and returns its
// path. The caller owns the file and must remove it.
func (c *Client) Download(ctx context.Context, fileURL string) (string, error) {
	resp, err := c.get(ctx, fileURL, "*/*")
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	tmp, err := os.CreateTemp("", "post-syncer-*"+path.Ext(FileName(fileURL)))
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}

	if _, err := io.Copy(tmp, resp.Body); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", &domain.TransportError{URL: fileURL, Err: fmt.Errorf("copy body: %w", err)}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", fmt.Errorf("close temp file: %w", err)
	}

	return tmp.Name(), nil
}

// FileName returns the last path segment of a URL, ignoring its query.
func FileName(fileURL string) string {
	if u, err := url.Parse(fileURL); err == nil {
		return path.Base(u.Path)
	}
	return path.Base(fileURL)
}

// get issues a GET and returns the response only for status 200.
func (c *Client) get(ctx context.Context, reqURL, accept string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &domain.TransportError{URL: reqURL, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &domain.TransportError{URL: reqURL, Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
		return nil, &domain.RemoteError{URL: reqURL, StatusCode: resp.StatusCode}
	}

	return resp, nil
}
