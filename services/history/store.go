package history

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"minnal/models"
)

var (
	ErrUserIDRequired  = errors.New("user id is required")
	ErrItemIDRequired  = errors.New("item id is required")
	ErrInvalidItemType = errors.New("item type must be movie or series")
	ErrEpisodeRequired = errors.New("season and episode are required for series")
	ErrInvalidDuration = errors.New("duration must be positive")
	ErrInvalidPosition = errors.New("position cannot be negative")
	ErrInvalidQuality  = errors.New("unknown default quality")
)

// finishedThreshold is the fraction above which an entry counts as watched.
const finishedThreshold = 0.9

// Store holds per-user watch state. Implementations serialize writes per user
// and return copies, so callers never observe a partially written entry.
type Store interface {
	GetOrCreateUser(userID string) models.UserState
	RecordProgress(userID string, update models.ProgressUpdate) (models.WatchProgress, error)
	SetEnrichment(userID, key string, enrichment models.Enrichment) (models.WatchProgress, bool)
	// SetNextEpisode applies only while the entry is still the finished write
	// observed at asOf; a newer write wins.
	SetNextEpisode(userID, key string, next *models.EpisodeRef, asOf time.Time) (models.WatchProgress, bool)
	// History returns up to limit entries, most recent first. limit <= 0 returns all.
	History(userID string, limit int) []models.WatchProgress
	Preferences(userID string) models.Preferences
	SetPreferences(userID string, prefs models.Preferences) (models.Preferences, error)
}

// MakeWatchKey builds the key for one watchable unit. Movie keys ignore season and episode.
func MakeWatchKey(itemID string, kind models.MediaKind, season, episode int) string {
	itemID = strings.TrimSpace(itemID)
	if kind == models.MediaKindSeries {
		return fmt.Sprintf("%s:series:s%de%d", itemID, season, episode)
	}
	return itemID + ":movie"
}

type userState struct {
	mu       sync.RWMutex
	progress map[string]models.WatchProgress
	history  []string
	prefs    models.Preferences
}

// MemoryStore keeps watch state for the lifetime of the process.
// The outer lock only guards the user map; each user has its own lock.
type MemoryStore struct {
	mu    sync.RWMutex
	users map[string]*userState
	now   func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]*userState),
		now:   func() time.Time { return time.Now().UTC() },
	}
}

func (s *MemoryStore) user(userID string, create bool) *userState {
	s.mu.RLock()
	u, ok := s.users[userID]
	s.mu.RUnlock()
	if ok || !create {
		return u
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[userID]; ok {
		return u
	}
	u = &userState{
		progress: make(map[string]models.WatchProgress),
		prefs:    models.DefaultPreferences(),
	}
	s.users[userID] = u
	return u
}

// GetOrCreateUser returns a snapshot of the user's state. A blank id gets an
// empty default snapshot and nothing is stored.
func (s *MemoryStore) GetOrCreateUser(userID string) models.UserState {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserState{
			Progress:    map[string]models.WatchProgress{},
			History:     []string{},
			Preferences: models.DefaultPreferences(),
		}
	}
	u := s.user(userID, true)

	u.mu.RLock()
	defer u.mu.RUnlock()
	state := models.UserState{
		UserID:      userID,
		Progress:    make(map[string]models.WatchProgress, len(u.progress)),
		History:     append([]string(nil), u.history...),
		Preferences: u.prefs,
	}
	for key, entry := range u.progress {
		state.Progress[key] = cloneProgress(entry)
	}
	return state
}

func (s *MemoryStore) RecordProgress(userID string, update models.ProgressUpdate) (models.WatchProgress, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.WatchProgress{}, ErrUserIDRequired
	}
	entry, err := newEntry(update)
	if err != nil {
		return models.WatchProgress{}, err
	}
	entry.LastWatchedAt = s.now()

	u := s.user(userID, true)
	u.mu.Lock()
	defer u.mu.Unlock()

	if existing, ok := u.progress[entry.Key]; ok {
		entry.Enrichment = existing.Enrichment
		if entry.Finished {
			entry.NextEpisode = existing.NextEpisode
		}
	}
	u.progress[entry.Key] = entry
	u.history = moveToFront(u.history, entry.Key)

	return cloneProgress(entry), nil
}

// newEntry validates an update and derives the stored fields.
func newEntry(update models.ProgressUpdate) (models.WatchProgress, error) {
	itemID := strings.TrimSpace(update.ItemID)
	if itemID == "" {
		return models.WatchProgress{}, ErrItemIDRequired
	}
	kind, ok := models.ParseMediaKind(string(update.ItemType))
	if !ok {
		return models.WatchProgress{}, ErrInvalidItemType
	}
	if update.Duration <= 0 {
		return models.WatchProgress{}, ErrInvalidDuration
	}
	if update.Position < 0 {
		return models.WatchProgress{}, ErrInvalidPosition
	}

	entry := models.WatchProgress{
		ItemID:   itemID,
		ItemType: kind,
		Position: update.Position,
		Duration: update.Duration,
	}
	if kind == models.MediaKindSeries {
		if update.Season == nil || update.Episode == nil || *update.Season < 0 || *update.Episode < 1 {
			return models.WatchProgress{}, ErrEpisodeRequired
		}
		season, episode := *update.Season, *update.Episode
		entry.Season = &season
		entry.Episode = &episode
		entry.Key = MakeWatchKey(itemID, kind, season, episode)
	} else {
		entry.Key = MakeWatchKey(itemID, kind, 0, 0)
	}

	entry.FractionWatched = entry.Position / entry.Duration
	entry.Finished = entry.FractionWatched > finishedThreshold
	return entry, nil
}

func moveToFront(history []string, key string) []string {
	out := make([]string, 0, len(history)+1)
	out = append(out, key)
	for _, existing := range history {
		if existing != key {
			out = append(out, existing)
		}
	}
	return out
}

func (s *MemoryStore) SetEnrichment(userID, key string, enrichment models.Enrichment) (models.WatchProgress, bool) {
	return s.mutate(userID, key, func(entry *models.WatchProgress) bool {
		e := enrichment
		entry.Enrichment = &e
		return true
	})
}

func (s *MemoryStore) SetNextEpisode(userID, key string, next *models.EpisodeRef, asOf time.Time) (models.WatchProgress, bool) {
	return s.mutate(userID, key, func(entry *models.WatchProgress) bool {
		if !entry.Finished || !entry.LastWatchedAt.Equal(asOf) {
			return false
		}
		if next == nil {
			entry.NextEpisode = nil
			return true
		}
		n := *next
		entry.NextEpisode = &n
		return true
	})
}

// mutate applies fn to an existing entry without touching history order.
// fn reports whether it changed the entry.
func (s *MemoryStore) mutate(userID, key string, fn func(*models.WatchProgress) bool) (models.WatchProgress, bool) {
	u := s.user(strings.TrimSpace(userID), false)
	if u == nil {
		return models.WatchProgress{}, false
	}
	u.mu.Lock()
	defer u.mu.Unlock()

	entry, ok := u.progress[key]
	if !ok {
		return models.WatchProgress{}, false
	}
	if !fn(&entry) {
		return models.WatchProgress{}, false
	}
	u.progress[key] = entry
	return cloneProgress(entry), true
}

func (s *MemoryStore) History(userID string, limit int) []models.WatchProgress {
	u := s.user(strings.TrimSpace(userID), false)
	if u == nil {
		return []models.WatchProgress{}
	}
	u.mu.RLock()
	defer u.mu.RUnlock()

	keys := u.history
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	out := make([]models.WatchProgress, 0, len(keys))
	for _, key := range keys {
		if entry, ok := u.progress[key]; ok {
			out = append(out, cloneProgress(entry))
		}
	}
	return out
}

func (s *MemoryStore) Preferences(userID string) models.Preferences {
	u := s.user(strings.TrimSpace(userID), false)
	if u == nil {
		return models.DefaultPreferences()
	}
	u.mu.RLock()
	defer u.mu.RUnlock()
	return u.prefs
}

func (s *MemoryStore) SetPreferences(userID string, prefs models.Preferences) (models.Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Preferences{}, ErrUserIDRequired
	}
	prefs, err := normalizePreferences(prefs)
	if err != nil {
		return models.Preferences{}, err
	}

	u := s.user(userID, true)
	u.mu.Lock()
	defer u.mu.Unlock()
	u.prefs = prefs
	return prefs, nil
}

func normalizePreferences(prefs models.Preferences) (models.Preferences, error) {
	defaults := models.DefaultPreferences()
	prefs.DefaultQuality = strings.TrimSpace(prefs.DefaultQuality)
	if prefs.DefaultQuality == "" {
		prefs.DefaultQuality = defaults.DefaultQuality
	}
	if !models.IsKnownQuality(prefs.DefaultQuality) {
		return models.Preferences{}, fmt.Errorf("%w: %q", ErrInvalidQuality, prefs.DefaultQuality)
	}
	prefs.DefaultLanguage = strings.TrimSpace(prefs.DefaultLanguage)
	if prefs.DefaultLanguage == "" {
		prefs.DefaultLanguage = defaults.DefaultLanguage
	}
	prefs.DefaultSubtitles = strings.ToLower(strings.TrimSpace(prefs.DefaultSubtitles))
	if prefs.DefaultSubtitles == "" {
		prefs.DefaultSubtitles = defaults.DefaultSubtitles
	}
	return prefs, nil
}

func cloneProgress(entry models.WatchProgress) models.WatchProgress {
	if entry.Season != nil {
		v := *entry.Season
		entry.Season = &v
	}
	if entry.Episode != nil {
		v := *entry.Episode
		entry.Episode = &v
	}
	if entry.Enrichment != nil {
		v := *entry.Enrichment
		entry.Enrichment = &v
	}
	if entry.NextEpisode != nil {
		v := *entry.NextEpisode
		entry.NextEpisode = &v
	}
	return entry
}
