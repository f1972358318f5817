// Package http exposes the JSON API: operation CRUD, listing with filters,
// and monthly summary reads backed by an LRU cache.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"contas/internal/cache"
	"contas/internal/middleware/ratelimit"
	"contas/internal/middleware/trace"
	"contas/internal/usecase"
)

// OperationPublisher notifies the aggregation worker after a mutation.
// Implemented by the AMQP client; nil disables publishing.
type OperationPublisher interface {
	PublishOperationChanged(ctx context.Context, operationID, userID, month, action string) error
}

// Config carries the server-level knobs.
type Config struct {
	Addr              string
	DefaultUser       string
	RequestsPerMinute int
}

// Stores groups the storage contracts the handlers run on.
type Stores struct {
	Operations usecase.OperationStore
	Summaries  usecase.SummaryStore
}

type Server struct {
	http.Server

	createOp     *usecase.CreateOperation
	updateOp     *usecase.UpdateOperation
	deleteOp     *usecase.DeleteOperation
	getOp        *usecase.GetOperationByID
	listOps      *usecase.GetOperations
	getSummaries *usecase.GetMonthlyFinanceSummary

	publisher   OperationPublisher
	defaultUser string

	limiter *ratelimit.Limiter
	tracer  *trace.Middleware

	summaryCache *cache.LRUCache[[]summaryResponse]
	cacheManager *cache.Manager

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run
// http.Server.
func NewServer(cfg Config, stores Stores, publisher OperationPublisher) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    cfg.Addr,
			Handler: mux,
		},
		createOp:     usecase.NewCreateOperation(stores.Operations),
		updateOp:     usecase.NewUpdateOperation(stores.Operations),
		deleteOp:     usecase.NewDeleteOperation(stores.Operations),
		getOp:        usecase.NewGetOperationByID(stores.Operations),
		listOps:      usecase.NewGetOperations(stores.Operations),
		getSummaries: usecase.NewGetMonthlyFinanceSummary(stores.Summaries),
		publisher:    publisher,
		defaultUser:  cfg.DefaultUser,
		limiter:      ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.RequestsPerMinute}),
		tracer:       trace.NewMiddleware(extractClientIP),
		summaryCache: cache.NewLRUCache[[]summaryResponse](100, 5*time.Minute),
		cacheManager: cache.NewManager(),
	}

	s.cacheManager.Register(s.summaryCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/operations", s.handleCreateOperation)
	mux.HandleFunc("GET /api/operations", s.handleListOperations)
	mux.HandleFunc("GET /api/operations/{id}", s.handleGetOperation)
	mux.HandleFunc("PUT /api/operations/{id}", s.handleUpdateOperation)
	mux.HandleFunc("DELETE /api/operations/{id}", s.handleDeleteOperation)

	mux.HandleFunc("GET /api/summaries", s.handleGetSummaries)

	rateLimited := s.limiter.Middleware(extractClientIP)(mux)
	s.Server.Handler = s.tracer.Middleware(rateLimited)

	return s
}

// Shutdown stops the HTTP listener and the background cleanup goroutines.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		s.cacheManager.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":   "ok",
		"requests": s.tracer.TotalRequests(),
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	// ready as soon as stores answer; a one-row count doubles as a ping
	if _, err := s.listOps.Execute(r.Context(), usecase.GetOperationsRequest{}).Value(); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
