package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"minnal/handlers"
	"minnal/models"
	"minnal/services/history"
)

type fakeWatchService struct {
	lastUserID string
	lastUpdate models.ProgressUpdate
	lastLimit  int
	entry      models.WatchProgress
	items      []models.WatchProgress
	prefs      models.Preferences
	err        error
}

func (f *fakeWatchService) RecordProgress(ctx context.Context, userID string, update models.ProgressUpdate) (models.WatchProgress, error) {
	f.lastUserID, f.lastUpdate = userID, update
	return f.entry, f.err
}

func (f *fakeWatchService) ContinueWatching(ctx context.Context, userID string, limit int) ([]models.WatchProgress, error) {
	f.lastUserID, f.lastLimit = userID, limit
	return f.items, f.err
}

func (f *fakeWatchService) NextEpisodes(ctx context.Context, itemID string, season, episode int) []models.EpisodeRef {
	return []models.EpisodeRef{{ID: "se1ep4", Season: season, Episode: episode + 1}}
}

func (f *fakeWatchService) Preferences(userID string) (models.Preferences, error) {
	f.lastUserID = userID
	return f.prefs, f.err
}

func (f *fakeWatchService) UpdatePreferences(userID string, prefs models.Preferences) (models.Preferences, error) {
	f.lastUserID = userID
	return prefs, f.err
}

type fakeRecommendationService struct{}

func (fakeRecommendationService) Recommendations(ctx context.Context, userID string) []models.MetaPreview {
	return []models.MetaPreview{{ID: "ml7"}}
}

func TestWatchHandler_RecordProgress(t *testing.T) {
	svc := &fakeWatchService{entry: models.WatchProgress{Key: "ml42:series:s1e3", FractionWatched: 0.25}}
	handler := handlers.NewWatchHandler(svc, fakeRecommendationService{})

	body := `{"userId":"u1","itemId":"ml42","itemType":"series","season":1,"episode":3,"position":300,"duration":1200}`
	req := httptest.NewRequest(http.MethodPost, "/api/watch-progress", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handler.RecordProgress(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if svc.lastUserID != "u1" || svc.lastUpdate.ItemID != "ml42" || svc.lastUpdate.Episode == nil || *svc.lastUpdate.Episode != 3 {
		t.Fatalf("unexpected forwarded update %q %+v", svc.lastUserID, svc.lastUpdate)
	}
	var response models.WatchProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Key != "ml42:series:s1e3" {
		t.Fatalf("unexpected key %q", response.Key)
	}
}

func TestWatchHandler_RecordProgressErrors(t *testing.T) {
	handler := handlers.NewWatchHandler(&fakeWatchService{}, fakeRecommendationService{})
	rec := httptest.NewRecorder()
	handler.RecordProgress(rec, httptest.NewRequest(http.MethodPost, "/api/watch-progress", strings.NewReader("{")))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid JSON, got %d", rec.Code)
	}

	handler = handlers.NewWatchHandler(&fakeWatchService{err: history.ErrInvalidDuration}, fakeRecommendationService{})
	rec = httptest.NewRecorder()
	handler.RecordProgress(rec, httptest.NewRequest(http.MethodPost, "/api/watch-progress", strings.NewReader(`{"userId":"u1"}`)))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation error, got %d", rec.Code)
	}
}

func TestWatchHandler_ContinueWatching(t *testing.T) {
	svc := &fakeWatchService{items: []models.WatchProgress{{Key: "tt1:movie"}}}
	handler := handlers.NewWatchHandler(svc, fakeRecommendationService{})

	rec := httptest.NewRecorder()
	handler.ContinueWatching(rec, httptest.NewRequest(http.MethodGet, "/api/continue-watching?userId=u1&limit=5", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	if svc.lastUserID != "u1" || svc.lastLimit != 5 {
		t.Fatalf("unexpected forwarded args %q %d", svc.lastUserID, svc.lastLimit)
	}
	var response []models.WatchProgress
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].Key != "tt1:movie" {
		t.Fatalf("unexpected response %+v", response)
	}

	rec = httptest.NewRecorder()
	handler.ContinueWatching(rec, httptest.NewRequest(http.MethodGet, "/api/continue-watching?userId=u1&limit=ten", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad limit, got %d", rec.Code)
	}
}

func TestWatchHandler_RecommendationsRequiresUser(t *testing.T) {
	handler := handlers.NewWatchHandler(&fakeWatchService{}, fakeRecommendationService{})

	rec := httptest.NewRecorder()
	handler.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without user, got %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	handler.Recommendations(rec, httptest.NewRequest(http.MethodGet, "/api/recommendations?userId=u1", nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ml7"`) {
		t.Fatalf("unexpected response %d %s", rec.Code, rec.Body.String())
	}
}

func TestWatchHandler_NextEpisodes(t *testing.T) {
	handler := handlers.NewWatchHandler(&fakeWatchService{}, fakeRecommendationService{})

	rec := httptest.NewRecorder()
	handler.NextEpisodes(rec, httptest.NewRequest(http.MethodGet, "/api/next-episodes?itemId=ml42&season=1&episode=3", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", rec.Code)
	}
	var response []models.EpisodeRef
	if err := json.Unmarshal(rec.Body.Bytes(), &response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response) != 1 || response[0].Episode != 4 {
		t.Fatalf("unexpected response %+v", response)
	}

	rec = httptest.NewRecorder()
	handler.NextEpisodes(rec, httptest.NewRequest(http.MethodGet, "/api/next-episodes?itemId=ml42&season=one", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestWatchHandler_Preferences(t *testing.T) {
	svc := &fakeWatchService{prefs: models.DefaultPreferences()}
	handler := handlers.NewWatchHandler(svc, fakeRecommendationService{})

	req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/api/users/u1/preferences", nil), map[string]string{"userID": "u1"})
	rec := httptest.NewRecorder()
	handler.GetPreferences(rec, req)
	if rec.Code != http.StatusOK || svc.lastUserID != "u1" {
		t.Fatalf("unexpected get result %d %q", rec.Code, svc.lastUserID)
	}

	payload, _ := json.Marshal(models.Preferences{DefaultQuality: "720p"})
	req = mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/api/users/u1/preferences", bytes.NewReader(payload)), map[string]string{"userID": "u1"})
	rec = httptest.NewRecorder()
	handler.PutPreferences(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("unexpected put status %d", rec.Code)
	}
	var saved models.Preferences
	if err := json.Unmarshal(rec.Body.Bytes(), &saved); err != nil || saved.DefaultQuality != "720p" {
		t.Fatalf("unexpected saved preferences %+v err=%v", saved, err)
	}

	handler = handlers.NewWatchHandler(&fakeWatchService{err: history.ErrInvalidQuality}, fakeRecommendationService{})
	req = mux.SetURLVars(httptest.NewRequest(http.MethodPut, "/api/users/u1/preferences", bytes.NewReader(payload)), map[string]string{"userID": "u1"})
	rec = httptest.NewRecorder()
	handler.PutPreferences(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid quality, got %d", rec.Code)
	}
}
