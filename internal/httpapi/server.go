// Package httpapi exposes the step engine over HTTP and provides the
// matching client used by remote runners.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"post_syncer/internal/domain"
	"post_syncer/internal/service"
)

const (
	StepPath        = "/sync/step"
	PublicMediaPath = "/wp-json/sync-posts/v1/public-media/"
	MediaPath       = "/media/"

	formContentType = "application/x-www-form-urlencoded"
	sniffLen        = 3072
)

// Stepper executes one sync step.
type Stepper interface {
	Step(ctx context.Context, req domain.StepRequest) (*domain.StepResult, error)
}

type MediaReader interface {
	Get(ctx context.Context, id int64) (*domain.LocalMedia, error)
}

type BlobReader interface {
	Get(ctx context.Context, key string) (io.ReadCloser, error)
}

type Config struct {
	Addr         string
	PublicURL    string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// Envelope wraps every step response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// ErrorData is the payload of a failed step. Trace is set for internal
// faults only.
type ErrorData struct {
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

type Server struct {
	server    *http.Server
	stepper   Stepper
	media     MediaReader
	blobs     BlobReader
	gatherer  prometheus.Gatherer
	publicURL string
	logger    *slog.Logger
}

func NewServer(
	cfg Config,
	stepper Stepper,
	media MediaReader,
	blobs BlobReader,
	gatherer prometheus.Gatherer,
	logger *slog.Logger,
) *Server {
	s := &Server{
		stepper:   stepper,
		media:     media,
		blobs:     blobs,
		gatherer:  gatherer,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		logger:    logger.With("component", "httpapi"),
	}
	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}
	return s
}

// Handler returns the routed handler wrapped in request logging.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST "+StepPath, s.handleStep)
	mux.HandleFunc("GET "+PublicMediaPath+"{id}", s.handlePublicMedia)
	mux.HandleFunc("GET "+MediaPath+"{key...}", s.handleMedia)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	if s.gatherer != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
	return s.loggingMiddleware(mux)
}

// Start serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s.logger.Info("shutting down http server")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func (s *Server) handleStep(w http.ResponseWriter, r *http.Request) {
	req, err := parseStepRequest(r)
	if err != nil {
		s.writeStepError(w, http.StatusBadRequest, ErrorData{Message: err.Error()})
		return
	}

	result, err := s.stepper.Step(r.Context(), req)
	if err != nil {
		status, data := stepErrorResponse(err)
		if status >= http.StatusInternalServerError {
			s.logger.Error("sync step failed", "target_index", req.TargetIndex, "page", req.Page, "error", err)
		} else {
			s.logger.Warn("sync step rejected", "target_index", req.TargetIndex, "page", req.Page, "error", err)
		}
		s.writeStepError(w, status, data)
		return
	}

	data, err := json.Marshal(result)
	if err != nil {
		s.writeStepError(w, http.StatusInternalServerError, ErrorData{Message: err.Error()})
		return
	}
	s.writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

func parseStepRequest(r *http.Request) (domain.StepRequest, error) {
	var req domain.StepRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), formContentType) {
		if err := r.ParseForm(); err != nil {
			return req, fmt.Errorf("parse form: %w", err)
		}
		var err error
		if req.TargetIndex, err = formInt(r, "target_index"); err != nil {
			return req, err
		}
		if req.Page, err = formInt(r, "page"); err != nil {
			return req, err
		}
		return req, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, fmt.Errorf("decode step request: %w", err)
	}
	return req, nil
}

func formInt(r *http.Request, key string) (int, error) {
	raw := r.PostFormValue(key)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return v, nil
}

// stepErrorResponse maps a step failure to a status the client can turn
// back into a typed error: 502 for retryable source failures, 422 for the
// rest of the source failures, 500 with a trace for internal faults.
func stepErrorResponse(err error) (int, ErrorData) {
	var internalErr *domain.InternalError
	if errors.As(err, &internalErr) {
		return http.StatusInternalServerError, ErrorData{Message: internalErr.Error(), Trace: internalErr.Stack}
	}

	data := ErrorData{Message: err.Error()}
	if domain.IsRetryable(err) {
		return http.StatusBadGateway, data
	}

	var remoteErr *domain.RemoteError
	var invalidErr *domain.InvalidResponseError
	switch {
	case errors.As(err, &remoteErr), errors.As(err, &invalidErr), errors.Is(err, service.ErrNoTargets):
		return http.StatusUnprocessableEntity, data
	}
	return http.StatusInternalServerError, data
}

func (s *Server) handlePublicMedia(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		s.writeJSON(w, http.StatusNotFound, ErrorData{Message: "media not found"})
		return
	}

	media, err := s.media.Get(r.Context(), id)
	if errors.Is(err, domain.ErrNotFound) {
		s.writeJSON(w, http.StatusNotFound, ErrorData{Message: "media not found"})
		return
	}
	if err != nil {
		s.logger.Error("failed to load media", "media_id", id, "error", err)
		s.writeJSON(w, http.StatusInternalServerError, ErrorData{Message: "failed to load media"})
		return
	}
	if media.ObjectKey == "" {
		s.writeJSON(w, http.StatusInternalServerError, ErrorData{Message: "media file url could not be resolved"})
		return
	}

	descriptor := domain.MediaDescriptor{
		ID:        media.ID,
		SourceURL: s.publicURL + MediaPath + media.ObjectKey,
		Width:     media.Width,
		Height:    media.Height,
		Alt:       media.Alt,
		Title:     media.Title,
	}
	if !media.ModifiedAt.IsZero() {
		descriptor.Modified = &domain.WPTime{Time: media.ModifiedAt}
	}
	s.writeJSON(w, http.StatusOK, descriptor)
}

func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(r.PathValue("key"), "/")

	rc, err := s.blobs.Get(r.Context(), key)
	if errors.Is(err, domain.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	if err != nil {
		s.logger.Error("failed to open media object", "key", key, "error", err)
		http.Error(w, "failed to open media object", http.StatusInternalServerError)
		return
	}
	defer rc.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(rc, head)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		s.logger.Error("failed to read media object", "key", key, "error", err)
		http.Error(w, "failed to read media object", http.StatusInternalServerError)
		return
	}
	head = head[:n]

	w.Header().Set("Content-Type", mimetype.Detect(head).String())
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, io.MultiReader(bytes.NewReader(head), rc)); err != nil {
		s.logger.Warn("media response interrupted", "key", key, "error", err)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) writeStepError(w http.ResponseWriter, status int, data ErrorData) {
	payload, err := json.Marshal(data)
	if err != nil {
		payload = []byte(`{"message":"internal error"}`)
	}
	s.writeJSON(w, status, Envelope{Success: false, Data: payload})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("failed to encode response", "error", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
		)
	})
}
