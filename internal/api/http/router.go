package apihttp

import (
	"context"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Registrar mounts a handler's routes.
type Registrar interface {
	Register(r *mux.Router)
}

// Pinger checks the backing store for /healthz.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Route registers path with and without the trailing slash.
func Route(r *mux.Router, path string, handler http.HandlerFunc, methods ...string) {
	base := strings.TrimSuffix(path, "/")
	r.HandleFunc(base, handler).Methods(methods...)
	r.HandleFunc(base+"/", handler).Methods(methods...)
}

// NewRouter builds the service handler: CORS, request id and access log
// around a mux carrying /healthz, /metrics and every registrar's routes.
func NewRouter(logger *zap.Logger, db Pinger, registrars ...Registrar) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := mux.NewRouter()
	r.Use(Metrics)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if db != nil {
			if err := db.PingContext(req.Context()); err != nil {
				logger.Warn("health check failed", zap.Error(err))
				http.Error(w, "database unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	for _, registrar := range registrars {
		registrar.Register(r)
	}
	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		WriteError(w, http.StatusNotFound, "Not Found")
	})

	return CORS(RequestID(AccessLog(logger)(r)))
}
