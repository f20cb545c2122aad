package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"moneytracker/internal/core"
	"moneytracker/internal/ledger"
	applog "moneytracker/internal/log"
	"moneytracker/internal/middleware/ratelimit"
	"moneytracker/internal/middleware/security"
	"moneytracker/internal/middleware/trace"
	"moneytracker/internal/receipt"
)

// ReceiptScanner produces transaction drafts from receipt images.
type ReceiptScanner interface {
	Scan(ctx context.Context, img receipt.Image, t core.TransactionType) (receipt.Result, error)
}

// Pinger is a dependency checked by /readyz.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies wires the server to the rest of the application. Receipts
// and Checks are optional.
type Dependencies struct {
	Store            *ledger.Store
	Receipts         ReceiptScanner
	Checks           map[string]Pinger
	Logger           *applog.Logger
	ReceiptRateLimit int
	Now              func() time.Time
}

type Server struct {
	http.Server
	store    *ledger.Store
	receipts ReceiptScanner
	checks   map[string]Pinger
	logger   *applog.Logger
	now      func() time.Time
	started  time.Time

	detector    *security.Detector
	limiter     *ratelimit.Limiter
	traceMW     *trace.Middleware
	errorLogger *applog.StructuredLogger

	shutdownOnce sync.Once
}

func detectorConfig() security.DetectorConfig {
	cfg := security.DefaultDetectorConfig()
	cfg.MaxReceiptBytes = receipt.MaxImageSize + (1 << 20)
	return cfg
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = applog.New(applog.Config{Component: applog.ComponentHTTP})
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}

	s := &Server{
		store:       deps.Store,
		receipts:    deps.Receipts,
		checks:      deps.Checks,
		logger:      logger,
		now:         now,
		started:     now(),
		detector:    security.NewDetector(detectorConfig()),
		limiter:     ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: deps.ReceiptRateLimit}),
		errorLogger: applog.NewStructuredLogger(logger),
	}
	s.traceMW = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("GET /api/state", s.handleState)
	mux.HandleFunc("GET /api/stats", s.handleStats)
	mux.HandleFunc("GET /api/transactions", s.handleListTransactions)
	mux.HandleFunc("GET /api/transactions/recent", s.handleRecentTransactions)
	mux.HandleFunc("POST /api/transactions", s.handleCreateTransaction)
	mux.HandleFunc("PUT /api/transactions/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transactions/{id}", s.handleDeleteTransaction)
	mux.HandleFunc("GET /api/categories", s.handleListCategories)
	mux.HandleFunc("POST /api/categories", s.handleCreateCategory)
	mux.HandleFunc("PATCH /api/filter", s.handleSetFilter)
	mux.HandleFunc("GET /api/analytics", s.handleAnalytics)
	mux.HandleFunc("GET /api/statement.pdf", s.handleStatementPDF)

	limited := s.limiter.Middleware(s.detector.ExtractClientIP, func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusTooManyRequests, "rate limit exceeded, try again later")
	})
	mux.Handle("POST /api/receipts", limited(http.HandlerFunc(s.handleScanReceipt)))

	headers := security.NewHeadersMiddleware(security.DefaultHeadersConfig())
	var handler http.Handler = mux
	handler = security.NoStore(handler)
	handler = headers.Middleware(handler)
	handler = s.detector.Middleware(handler)
	handler = s.traceMW.Middleware(handler)

	s.Server = http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s
}

// Shutdown stops accepting requests and the rate limiter janitor.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}
