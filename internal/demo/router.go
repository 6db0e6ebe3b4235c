package demo

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/pan93412/Stats/internal/logger"
)

// Router wires the demo handler into a mux router.
type Router struct {
	handler *Handler
	router  *mux.Router
}

// NewRouter creates a router with the demo routes.
func NewRouter(handler *Handler, router *mux.Router) *Router {
	return &Router{
		handler: handler,
		router:  router,
	}
}

// RegisterRoutes registers the backend endpoints.
func (r *Router) RegisterRoutes() {
	r.router.HandleFunc("/summary/hourly", r.handler.GetHourly).Methods(http.MethodGet)
	r.router.HandleFunc("/summary/urls", r.handler.GetURLs).Methods(http.MethodGet)
	r.router.HandleFunc("/summary", r.handler.GetSummary).Methods(http.MethodGet)
	r.router.HandleFunc("/sessions", r.handler.GetSessions).Methods(http.MethodGet)

	r.router.HandleFunc("/healthz", r.handler.Health).Methods(http.MethodGet)
	r.router.HandleFunc("/demo/fail", r.handler.ToggleFailure).Methods(http.MethodPost)

	r.router.Use(logRequests)
}

// Handler returns the underlying http.Handler.
func (r *Router) Handler() http.Handler {
	return r.router
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, req)
		logger.Debug("demo request", "method", req.Method, "path", req.URL.Path, "duration", time.Since(start))
	})
}

// NewServeMux is a convenience that builds a fully wired router for handler.
func NewServeMux(handler *Handler) http.Handler {
	r := NewRouter(handler, mux.NewRouter())
	r.RegisterRoutes()
	return r.Handler()
}
