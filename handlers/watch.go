package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"minnal/models"
	"minnal/services/history"
	"minnal/services/recommendations"

	"github.com/gorilla/mux"
)

type watchService interface {
	RecordProgress(ctx context.Context, userID string, update models.ProgressUpdate) (models.WatchProgress, error)
	ContinueWatching(ctx context.Context, userID string, limit int) ([]models.WatchProgress, error)
	NextEpisodes(ctx context.Context, itemID string, season, episode int) []models.EpisodeRef
	Preferences(userID string) (models.Preferences, error)
	UpdatePreferences(userID string, prefs models.Preferences) (models.Preferences, error)
}

type recommendationService interface {
	Recommendations(ctx context.Context, userID string) []models.MetaPreview
}

var (
	_ watchService          = (*history.Service)(nil)
	_ recommendationService = (*recommendations.Service)(nil)
)

type WatchHandler struct {
	Service     watchService
	Recommender recommendationService
}

func NewWatchHandler(service watchService, recs recommendationService) *WatchHandler {
	return &WatchHandler{Service: service, Recommender: recs}
}

type progressRequest struct {
	UserID string `json:"userId"`
	models.ProgressUpdate
}

func (h *WatchHandler) RecordProgress(w http.ResponseWriter, r *http.Request) {
	var body progressRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	entry, err := h.Service.RecordProgress(r.Context(), body.UserID, body.ProgressUpdate)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, entry)
}

func (h *WatchHandler) ContinueWatching(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 0
	if raw := strings.TrimSpace(query.Get("limit")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			writeJSONError(w, "limit must be an integer", http.StatusBadRequest)
			return
		}
		limit = n
	}

	items, err := h.Service.ContinueWatching(r.Context(), query.Get("userId"), limit)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, items)
}

func (h *WatchHandler) Recommendations(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("userId"))
	if userID == "" {
		writeServiceError(w, history.ErrUserIDRequired)
		return
	}
	writeJSON(w, h.Recommender.Recommendations(r.Context(), userID))
}

func (h *WatchHandler) NextEpisodes(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	itemID := strings.TrimSpace(query.Get("itemId"))
	if itemID == "" {
		writeServiceError(w, history.ErrItemIDRequired)
		return
	}
	season, err1 := strconv.Atoi(query.Get("season"))
	episode, err2 := strconv.Atoi(query.Get("episode"))
	if err1 != nil || err2 != nil {
		writeJSONError(w, "season and episode must be integers", http.StatusBadRequest)
		return
	}
	writeJSON(w, h.Service.NextEpisodes(r.Context(), itemID, season, episode))
}

func (h *WatchHandler) GetPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := h.Service.Preferences(mux.Vars(r)["userID"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, prefs)
}

func (h *WatchHandler) PutPreferences(w http.ResponseWriter, r *http.Request) {
	var prefs models.Preferences
	if err := json.NewDecoder(r.Body).Decode(&prefs); err != nil {
		writeJSONError(w, "invalid JSON body", http.StatusBadRequest)
		return
	}

	saved, err := h.Service.UpdatePreferences(mux.Vars(r)["userID"], prefs)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, saved)
}

func (h *WatchHandler) Options(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}
