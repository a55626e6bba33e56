// Package http exposes the REST API: auth, transaction, category and budget
// CRUD, plus the statistics endpoints. Responses share a single envelope and
// statistics reads go through a per-user LRU cache.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"jangbu/internal/cache"
	"jangbu/internal/core"
	"jangbu/internal/middleware/ratelimit"
	"jangbu/internal/stats"
)

const statsFetchTimeout = 7 * time.Second

// StatisticsProvider computes the aggregates served by /api/statistics.
type StatisticsProvider interface {
	Monthly(ctx context.Context, userID int64, month core.MonthKey) (stats.MonthlyStatistics, error)
	Trend(ctx context.Context, userID int64, start, end core.MonthKey) (stats.PeriodTrend, error)
	BudgetComparison(ctx context.Context, userID int64, month core.MonthKey) (stats.BudgetComparison, error)
}

// TransactionAPI is the transaction surface the handlers call.
type TransactionAPI interface {
	Create(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Get(ctx context.Context, userID, id int64) (core.Transaction, error)
	ListMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Transaction, error)
	Update(ctx context.Context, tx core.Transaction) (core.Transaction, error)
	Delete(ctx context.Context, userID, id int64) error
}

type CategoryAPI interface {
	Create(ctx context.Context, c core.Category) (core.Category, error)
	List(ctx context.Context, userID int64) ([]core.Category, error)
	Get(ctx context.Context, userID, id int64) (core.Category, error)
	Update(ctx context.Context, c core.Category) (core.Category, error)
	Delete(ctx context.Context, userID, id int64) error
}

type BudgetAPI interface {
	Create(ctx context.Context, b core.Budget) (core.Budget, error)
	Get(ctx context.Context, userID, id int64) (core.Budget, error)
	ListMonth(ctx context.Context, userID int64, month core.MonthKey) ([]core.Budget, error)
	Update(ctx context.Context, b core.Budget) (core.Budget, error)
	Delete(ctx context.Context, userID, id int64) error
}

type UserAPI interface {
	SignUp(ctx context.Context, email, nickname, password string) (core.User, string, error)
	Login(ctx context.Context, email, password string) (core.User, string, error)
}

// TokenVerifier resolves a bearer token to a user id.
type TokenVerifier interface {
	Verify(token string) (int64, error)
}

type Server struct {
	http.Server

	users        UserAPI
	transactions TransactionAPI
	categories   CategoryAPI
	budgets      BudgetAPI
	statistics   StatisticsProvider
	tokens       TokenVerifier

	rateLimiter *ratelimit.Limiter
	statsCache  *cache.LRUCache[any]
	cacheMgr    *cache.Manager

	shutdownOnce sync.Once
}

type Options struct {
	Addr           string
	Users          UserAPI
	Transactions   TransactionAPI
	Categories     CategoryAPI
	Budgets        BudgetAPI
	Statistics     StatisticsProvider
	Tokens         TokenVerifier
	StatsCacheSize int
	StatsCacheTTL  time.Duration
}

// NewServer wires routes and middleware, returning a ready-to-run server.
func NewServer(opts Options) *Server {
	if opts.StatsCacheSize <= 0 {
		opts.StatsCacheSize = 1000
	}
	if opts.StatsCacheTTL <= 0 {
		opts.StatsCacheTTL = 5 * time.Minute
	}

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:    opts.Addr,
			Handler: mux,
		},
		users:        opts.Users,
		transactions: opts.Transactions,
		categories:   opts.Categories,
		budgets:      opts.Budgets,
		statistics:   opts.Statistics,
		tokens:       opts.Tokens,
		rateLimiter:  ratelimit.NewLimiter(ratelimit.DefaultConfig()),
		statsCache:   cache.NewLRUCache[any](opts.StatsCacheSize, opts.StatsCacheTTL),
		cacheMgr:     cache.NewManager(),
	}
	s.cacheMgr.Register(s.statsCache)
	s.cacheMgr.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/auth/signup", s.withCommon(s.handleSignUp))
	mux.HandleFunc("POST /api/auth/login", s.withCommon(s.handleLogin))

	mux.HandleFunc("POST /api/transactions", s.withCommon(s.withAuth(s.handleCreateTransaction)))
	mux.HandleFunc("GET /api/transactions", s.withCommon(s.withAuth(s.handleListTransactions)))
	mux.HandleFunc("GET /api/transactions/{id}", s.withCommon(s.withAuth(s.handleGetTransaction)))
	mux.HandleFunc("PUT /api/transactions/{id}", s.withCommon(s.withAuth(s.handleUpdateTransaction)))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withCommon(s.withAuth(s.handleDeleteTransaction)))

	mux.HandleFunc("POST /api/categories", s.withCommon(s.withAuth(s.handleCreateCategory)))
	mux.HandleFunc("GET /api/categories", s.withCommon(s.withAuth(s.handleListCategories)))
	mux.HandleFunc("GET /api/categories/{id}", s.withCommon(s.withAuth(s.handleGetCategory)))
	mux.HandleFunc("PUT /api/categories/{id}", s.withCommon(s.withAuth(s.handleUpdateCategory)))
	mux.HandleFunc("DELETE /api/categories/{id}", s.withCommon(s.withAuth(s.handleDeleteCategory)))

	mux.HandleFunc("POST /api/budgets", s.withCommon(s.withAuth(s.handleCreateBudget)))
	mux.HandleFunc("GET /api/budgets", s.withCommon(s.withAuth(s.handleListBudgets)))
	mux.HandleFunc("GET /api/budgets/{id}", s.withCommon(s.withAuth(s.handleGetBudget)))
	mux.HandleFunc("PUT /api/budgets/{id}", s.withCommon(s.withAuth(s.handleUpdateBudget)))
	mux.HandleFunc("DELETE /api/budgets/{id}", s.withCommon(s.withAuth(s.handleDeleteBudget)))

	mux.HandleFunc("GET /api/statistics/monthly", s.withCommon(s.withAuth(s.handleMonthlyStatistics)))
	mux.HandleFunc("GET /api/statistics/trend", s.withCommon(s.withAuth(s.handleTrendStatistics)))
	mux.HandleFunc("GET /api/statistics/budget-comparison", s.withCommon(s.withAuth(s.handleBudgetComparison)))

	return s
}

// Shutdown stops the server plus its cache and limiter goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheMgr.Stop()
		s.rateLimiter.Stop()
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
