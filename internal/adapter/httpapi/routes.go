package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter wires the API routes. Everything under /api/v1 requires the
// bearer token; /health stays open for container probes. allowedOrigins is
// resolved by the caller (cmd/server owns configuration); empty falls back
// to local development origins.
func NewRouter(s *Server, apiToken string, allowedOrigins []string) *mux.Router {
	r := mux.NewRouter()

	r.Handle("/health", http.HandlerFunc(s.HealthCheck)).Methods(http.MethodGet)

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	}
	r.Use(func(next http.Handler) http.Handler {
		return handlers.CORS(
			handlers.AllowedOrigins(allowedOrigins),
			handlers.AllowedMethods([]string{"GET", "POST", "DELETE", "OPTIONS", "PATCH"}),
			handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		)(next)
	})

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(AuthMiddleware(apiToken))

	api.Handle("/investments", http.HandlerFunc(s.ListInvestments)).Methods(http.MethodGet)
	api.Handle("/investments", http.HandlerFunc(s.CreateInvestment)).Methods(http.MethodPost)
	api.Handle("/investments/{id}", http.HandlerFunc(s.UpdateInvestment)).Methods(http.MethodPatch)
	api.Handle("/investments/{id}", http.HandlerFunc(s.DeleteInvestment)).Methods(http.MethodDelete)

	api.Handle("/projection", http.HandlerFunc(s.GetProjection)).Methods(http.MethodGet)
	api.Handle("/projection/chart", http.HandlerFunc(s.GetProjectionChart)).Methods(http.MethodGet)

	api.Handle("/calendar/{year:[0-9]+}/{month:[0-9]+}", http.HandlerFunc(s.GetCalendar)).Methods(http.MethodGet)
	api.Handle("/stats", http.HandlerFunc(s.GetStats)).Methods(http.MethodGet)

	api.Handle("/completions/toggle", http.HandlerFunc(s.ToggleCompletion)).Methods(http.MethodPost)

	return r
}
