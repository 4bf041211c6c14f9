package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Nancy214/Expense-Tracker-sub005/internal/cache"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/core"
	"github.com/Nancy214/Expense-Tracker-sub005/internal/log"
)

// The server consumes the orchestration services through small interfaces
// so handler tests can run against in-memory fakes.
type (
	BudgetMutator interface {
		Create(ctx context.Context, b core.Budget, reason string) (core.Budget, error)
		Update(ctx context.Context, b core.Budget, reason string) (core.Budget, error)
		Delete(ctx context.Context, id uuid.UUID, reason string) error
	}

	BudgetReader interface {
		GetBudget(ctx context.Context, id uuid.UUID) (core.Budget, error)
		ListBudgets(ctx context.Context, userID string) ([]core.Budget, error)
	}

	TransactionHandler interface {
		Create(ctx context.Context, t core.Transaction) (core.Transaction, error)
		Get(ctx context.Context, id uuid.UUID) (core.Transaction, error)
		List(ctx context.Context, userID string) ([]core.Transaction, error)
		SetBillStatus(ctx context.Context, id uuid.UUID, status core.BillStatus) error
		MarkBillPaid(ctx context.Context, id uuid.UUID) error
	}

	ReminderReader interface {
		BudgetProgressAll(ctx context.Context, userID string, now time.Time) ([]core.BudgetProgress, error)
		BudgetReminders(ctx context.Context, userID string, now time.Time) ([]core.BudgetReminder, error)
		Bills(ctx context.Context, userID string, now time.Time) (core.BillBuckets, error)
	}

	AuditLogReader interface {
		ListLogEntries(ctx context.Context, userID string) ([]core.BudgetLogEntry, error)
	}
)

type Server struct {
	http.Server

	budgets      BudgetMutator
	budgetReader BudgetReader
	transactions TransactionHandler
	reminders    ReminderReader
	auditLog     AuditLogReader

	rateLimiter *rateLimiter

	// Audit-log reads are cached per user; every budget mutation for that
	// user invalidates the entry.
	logCache     *cache.LRUCache[[]core.BudgetLogEntry]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

type Options struct {
	Addr         string
	LogCacheSize int
	LogCacheTTL  time.Duration
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(opts Options, budgets BudgetMutator, budgetReader BudgetReader,
	transactions TransactionHandler, reminders ReminderReader, auditLog AuditLogReader) *Server {
	mux := http.NewServeMux()

	if opts.LogCacheSize <= 0 {
		opts.LogCacheSize = 100
	}
	if opts.LogCacheTTL <= 0 {
		opts.LogCacheTTL = 5 * time.Minute
	}

	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		budgets:      budgets,
		budgetReader: budgetReader,
		transactions: transactions,
		reminders:    reminders,
		auditLog:     auditLog,
		rateLimiter:  newRateLimiter(),
		logCache:     cache.NewLRUCache[[]core.BudgetLogEntry](opts.LogCacheSize, opts.LogCacheTTL),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.logCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/budgets", s.wrap(s.handleListBudgets))
	mux.HandleFunc("POST /api/budgets", s.wrap(s.handleCreateBudget))
	mux.HandleFunc("PUT /api/budgets/{id}", s.wrap(s.handleUpdateBudget))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.wrap(s.handleDeleteBudget))
	mux.HandleFunc("GET /api/budgets/progress", s.wrap(s.handleBudgetProgress))

	mux.HandleFunc("GET /api/reminders", s.wrap(s.handleReminders))

	mux.HandleFunc("GET /api/transactions", s.wrap(s.handleListTransactions))
	mux.HandleFunc("POST /api/transactions", s.wrap(s.handleCreateTransaction))
	mux.HandleFunc("GET /api/bills", s.wrap(s.handleBills))
	mux.HandleFunc("POST /api/bills/{id}/status", s.wrap(s.handleBillStatus))
	mux.HandleFunc("POST /api/bills/{id}/pay", s.wrap(s.handlePayBill))

	mux.HandleFunc("GET /api/budget-log", s.wrap(s.handleBudgetLog))

	return s
}

// wrap adds request tracing, security headers, rate limiting on mutations,
// and request logging.
func (s *Server) wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := r.Header.Get("X-Forwarded-For")
		if clientIP == "" {
			clientIP = r.Header.Get("X-Real-IP")
		}
		if clientIP == "" {
			clientIP = r.RemoteAddr
		}

		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldClientIP, clientIP,
			log.FieldComponent, log.ComponentHTTP)

		if r.Method != http.MethodGet && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded",
				log.FieldClientIP, clientIP,
				log.FieldMethod, r.Method,
				log.FieldPath, r.URL.Path,
				log.FieldComponent, log.ComponentRateLimit)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		slog.InfoContext(ctx, "Request completed",
			log.FieldRequestID, requestID,
			log.FieldMethod, r.Method,
			log.FieldPath, r.URL.Path,
			log.FieldStatusCode, rw.statusCode,
			log.FieldDuration, time.Since(start).Milliseconds(),
			log.FieldClientIP, clientIP,
			log.FieldComponent, log.ComponentHTTP)
	}
}

type contextKey string

const requestIDKey contextKey = "request_id"

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Shutdown stops the background routines before closing the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
