package stubapi

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

// NewRouter wires every backend route onto a mux router
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()

	r.Use(corsMiddleware)
	r.Use(requestLogger(h.logger))

	api := r.PathPrefix("/api").Subrouter()

	// Session
	api.HandleFunc("/auth/verify", h.RequireAuth("", h.Verify)).Methods(http.MethodGet, http.MethodOptions)

	// Public search
	api.HandleFunc("/searchFlight", h.SearchFlight).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/searchAllFlights", h.SearchAllFlights).Methods(http.MethodPost, http.MethodOptions)

	// Signed-in users
	api.HandleFunc("/feedback/addFeedback", h.RequireAuth("", h.AddFeedback)).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/getuserdetails", h.RequireAuth("", h.GetUserDetails)).Methods(http.MethodGet, http.MethodOptions)
	api.HandleFunc("/updateuserdetails", h.RequireAuth("", h.UpdateUserDetails)).Methods(http.MethodPut, http.MethodOptions)

	// Admin
	admin := api.PathPrefix("/admin").Subrouter()
	admin.HandleFunc("/addflight", h.RequireAuth(RoleAdmin, h.AddFlight)).Methods(http.MethodPost, http.MethodOptions)
	admin.HandleFunc("/getallflights", h.RequireAuth(RoleAdmin, h.GetAllFlights)).Methods(http.MethodGet, http.MethodOptions)
	admin.HandleFunc("/updateFlight/{id}", h.RequireAuth(RoleAdmin, h.UpdateFlight)).Methods(http.MethodPut, http.MethodOptions)
	admin.HandleFunc("/deleteflight/{id}", h.RequireAuth(RoleAdmin, h.DeleteFlight)).Methods(http.MethodDelete, http.MethodOptions)

	// Health check
	r.HandleFunc("/health", healthCheck).Methods(http.MethodGet)

	return r
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func requestLogger(logger *slog.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			level := slog.LevelInfo
			switch {
			case rec.status >= 500:
				level = slog.LevelError
			case rec.status >= 400:
				level = slog.LevelWarn
			}
			logger.LogAttrs(r.Context(), level, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", rec.status),
				slog.Duration("duration", time.Since(start)),
				slog.String("request_id", r.Header.Get("X-Request-ID")),
			)
		})
	}
}

func healthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}
