package rest

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// BasePath is the prefix of every account endpoint
const BasePath = "/account/v1"

// NewRouter wires the handler into a gorilla/mux router
func NewRouter(h *Handler, log logrus.FieldLogger) *mux.Router {
	r := mux.NewRouter()
	r.Use(loggingMiddleware(log))

	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	api := r.PathPrefix(BasePath).Subrouter()
	api.HandleFunc("/credit/{accountNumber}", h.Credit).Methods(http.MethodPost)
	api.HandleFunc("/debit/{accountNumber}", h.Debit).Methods(http.MethodPost)
	api.HandleFunc("/bill/{accountNumber}", h.BillPayment).Methods(http.MethodPost)
	api.HandleFunc("/account/create", h.CreateAccount).Methods(http.MethodPost)
	api.HandleFunc("/{accountNumber}", h.GetAccount).Methods(http.MethodGet)

	return r
}

// statusRecorder captures the status code written by the wrapped handler
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(code int) {
	rec.status = code
	rec.ResponseWriter.WriteHeader(code)
}

func loggingMiddleware(log logrus.FieldLogger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			log.WithFields(logrus.Fields{
				"method":      r.Method,
				"path":        r.URL.Path,
				"status":      rec.status,
				"duration_ms": time.Since(start).Milliseconds(),
			}).Info("http request")
		})
	}
}
