package api

import (
	"log"
	"net/http"
	"time"

	"minnal/handlers"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const requestIDHeader = "X-Request-ID"

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

// requestLogger tags each request with an id and logs it once served.
func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Printf("[http] id=%s method=%s path=%s status=%d duration=%s", id, r.Method, r.URL.Path, rec.status, time.Since(start).Round(time.Millisecond))
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts the addon protocol at the root and the watch API under /api.
func Register(r *mux.Router, addonHandler *handlers.AddonHandler, watchHandler *handlers.WatchHandler) {
	r.Use(requestLogger)

	r.HandleFunc("/manifest.json", addonHandler.Manifest).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}.json", addonHandler.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/catalog/{type}/{id}/{extra}.json", addonHandler.Catalog).Methods(http.MethodGet)
	r.HandleFunc("/meta/{type}/{id}.json", addonHandler.Meta).Methods(http.MethodGet)
	r.HandleFunc("/stream/{type}/{id}.json", addonHandler.Stream).Methods(http.MethodGet)
	r.HandleFunc("/stream/{type}/{id}/{extra}.json", addonHandler.Stream).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/watch-progress", watchHandler.RecordProgress).Methods(http.MethodPost)
	api.HandleFunc("/watch-progress", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/continue-watching", watchHandler.ContinueWatching).Methods(http.MethodGet)
	api.HandleFunc("/recommendations", watchHandler.Recommendations).Methods(http.MethodGet)
	api.HandleFunc("/next-episodes", watchHandler.NextEpisodes).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/preferences", watchHandler.GetPreferences).Methods(http.MethodGet)
	api.HandleFunc("/users/{userID}/preferences", watchHandler.PutPreferences).Methods(http.MethodPut)
	api.HandleFunc("/users/{userID}/preferences", watchHandler.Options).Methods(http.MethodOptions)
}
