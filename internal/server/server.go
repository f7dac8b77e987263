package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/example/go-wordvocab/internal/config"
	"github.com/example/go-wordvocab/internal/dictionary"
	"github.com/example/go-wordvocab/internal/text"
	"github.com/example/go-wordvocab/internal/vocab"
)

// ParseLogLevel converts a case-insensitive level string to slog.Level.
// An empty string returns slog.LevelInfo. Unknown strings return an error.
func ParseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug|info|warn|error)", s)
	}
}

// Transformer converts newline-separated text into id sequences, one per
// non-empty line.
type Transformer interface {
	Transform(ctx context.Context, text string, discard bool) ([][]int, error)
}

// VocabLister returns the most frequent vocabulary entries.
type VocabLister interface {
	Entries(limit int) []vocab.Entry
}

// ---------------------------------------------------------------------------
// Functional options
// ---------------------------------------------------------------------------

type options struct {
	maxTextBytes   int
	workers        int
	requestTimeout time.Duration
	logger         *slog.Logger
}

func defaultOptions() options {
	return options{
		maxTextBytes:   1 << 20,
		workers:        4,
		requestTimeout: 60 * time.Second,
		logger:         slog.Default(),
	}
}

// Option configures the HTTP handler.
type Option func(*options)

// WithMaxTextBytes sets the maximum allowed text length in bytes for POST /transform.
func WithMaxTextBytes(n int) Option {
	return func(o *options) { o.maxTextBytes = n }
}

// WithWorkers sets the maximum number of concurrent transform calls.
// Zero or less disables throttling.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithRequestTimeout sets the per-request transform deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(o *options) { o.requestTimeout = d }
}

// WithLogger sets the slog.Logger used for request logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// ---------------------------------------------------------------------------
// handler
// ---------------------------------------------------------------------------

// handler holds the dependencies needed to serve HTTP requests.
type handler struct {
	transformer Transformer
	vocab       VocabLister
	opts        options
	sem         chan struct{} // semaphore for worker pool
	log         *slog.Logger
}

// NewHandler returns an http.Handler that serves /health, /vocab, and POST /transform.
func NewHandler(tr Transformer, vl VocabLister, optFns ...Option) http.Handler {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}

	h := &handler{
		transformer: tr,
		vocab:       vl,
		opts:        opts,
		log:         opts.logger,
	}
	if opts.workers > 0 {
		h.sem = make(chan struct{}, opts.workers)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/health", h.handleHealth)
	mux.HandleFunc("/vocab", h.handleVocab)
	mux.HandleFunc("/transform", h.handleTransform)
	return mux
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildVersion(),
	})
}

func (h *handler) handleVocab(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid limit %q", raw))
			return
		}
		limit = n
	}

	entries := h.vocab.Entries(limit)
	if entries == nil {
		entries = []vocab.Entry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

type transformRequest struct {
	Text    string `json:"text"`
	Discard bool   `json:"discard"`
}

type transformResponse struct {
	Sentences [][]int `json:"sentences"`
}

func (h *handler) handleTransform(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	if r.Body == nil {
		writeError(w, http.StatusBadRequest, "request body is required")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes(h.opts.maxTextBytes))

	var req transformRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
			return
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return
	}

	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "text field is required")
		return
	}

	if len(req.Text) > h.opts.maxTextBytes {
		writeError(w, http.StatusRequestEntityTooLarge,
			fmt.Sprintf("text exceeds maximum size of %d bytes", h.opts.maxTextBytes))
		return
	}

	// Acquire a worker slot, honouring cancellation while waiting.
	if h.sem != nil {
		select {
		case h.sem <- struct{}{}:
		case <-r.Context().Done():
			writeError(w, http.StatusServiceUnavailable, "request cancelled while waiting for worker")
			return
		}
		defer func() { <-h.sem }()
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.opts.requestTimeout)
	defer cancel()

	start := time.Now()
	sentences, err := h.transformer.Transform(ctx, req.Text, req.Discard)
	durationMS := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			h.log.WarnContext(r.Context(), "transform timed out",
				slog.Int("text_len", len(req.Text)),
				slog.Int64("duration_ms", durationMS),
				slog.String("error", err.Error()),
			)
			writeError(w, http.StatusGatewayTimeout, "transform timed out")
			return
		}
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, text.ErrEmptyText):
			status = http.StatusBadRequest
		case errors.Is(err, dictionary.ErrNotFitted):
			status = http.StatusServiceUnavailable
		}
		h.log.ErrorContext(r.Context(), "transform failed",
			slog.Int("text_len", len(req.Text)),
			slog.Int64("duration_ms", durationMS),
			slog.String("error", err.Error()),
		)
		writeError(w, status, err.Error())
		return
	}

	if sentences == nil {
		sentences = [][]int{}
	}

	h.log.InfoContext(r.Context(), "transform complete",
		slog.Int("text_len", len(req.Text)),
		slog.Bool("discard", req.Discard),
		slog.Int("sentences", len(sentences)),
		slog.Int64("duration_ms", durationMS),
	)

	writeJSON(w, http.StatusOK, transformResponse{Sentences: sentences})
}

// maxBodyBytes bounds the request body. A JSON string escapes each byte
// into at most six ("\u00XX"), plus room for the envelope.
func maxBodyBytes(maxText int) int64 {
	return int64(max(maxText, 0))*6 + 4096
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// ---------------------------------------------------------------------------
// Server wires the handler into net/http.Server with graceful shutdown
// ---------------------------------------------------------------------------

// Server serves a fitted dictionary over HTTP.
type Server struct {
	cfg             config.Config
	pre             *Preprocessor
	logger          *slog.Logger
	shutdownTimeout time.Duration
}

func New(cfg config.Config, pre *Preprocessor, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		cfg:             cfg,
		pre:             pre,
		logger:          logger,
		shutdownTimeout: time.Duration(cfg.Server.ShutdownTimeout) * time.Second,
	}
}

// WithShutdownTimeout overrides the graceful-shutdown drain period.
func (s *Server) WithShutdownTimeout(d time.Duration) *Server {
	s.shutdownTimeout = d
	return s
}

func (s *Server) Start(ctx context.Context) error {
	if s.pre == nil {
		return errors.New("server: preprocessor is required")
	}

	h := NewHandler(s.pre, s.pre,
		WithWorkers(s.cfg.Server.Workers),
		WithMaxTextBytes(s.cfg.Server.MaxTextBytes),
		WithRequestTimeout(time.Duration(s.cfg.Server.RequestTimeout)*time.Second),
		WithLogger(s.logger),
	)

	httpServer := &http.Server{
		Addr:              s.cfg.Server.ListenAddr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	s.logger.Info("serving", slog.String("addr", s.cfg.Server.ListenAddr))

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return fmt.Errorf("http listen: %w", err)
	}
}

func ProbeHTTP(addr string) error {
	resp, err := http.Get("http://" + addr + "/health") //nolint:noctx
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected health status: %s", resp.Status)
	}
	return nil
}
