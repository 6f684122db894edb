package models

import "time"

// ProgressUpdate is one playback position report from a player.
type ProgressUpdate struct {
	ItemID   string    `json:"itemId"`
	ItemType MediaKind `json:"itemType"`
	Season   *int      `json:"season,omitempty"`
	Episode  *int      `json:"episode,omitempty"`
	Position float64   `json:"position"` // seconds
	Duration float64   `json:"duration"` // seconds
}

// Enrichment holds display data fetched from the provider after a write.
type Enrichment struct {
	Title        string `json:"title"`
	Poster       string `json:"poster,omitempty"`
	EpisodeTitle string `json:"episodeTitle,omitempty"`
	Thumbnail    string `json:"thumbnail,omitempty"`
}

// WatchProgress is the stored state of one watchable unit for one user.
// FractionWatched and Finished are recomputed on every write.
type WatchProgress struct {
	Key             string      `json:"key"`
	ItemID          string      `json:"itemId"`
	ItemType        MediaKind   `json:"itemType"`
	Season          *int        `json:"season,omitempty"`
	Episode         *int        `json:"episode,omitempty"`
	Position        float64     `json:"position"`
	Duration        float64     `json:"duration"`
	FractionWatched float64     `json:"fractionWatched"`
	Finished        bool        `json:"finished"`
	LastWatchedAt   time.Time   `json:"lastWatchedAt"`
	Enrichment      *Enrichment `json:"enrichment,omitempty"`
	NextEpisode     *EpisodeRef `json:"nextEpisode,omitempty"`
}

// EpisodeRef points at an upcoming episode of a series.
type EpisodeRef struct {
	ID        string `json:"id"` // se{S}ep{E}
	Title     string `json:"title"`
	Season    int    `json:"season"`
	Episode   int    `json:"episode"`
	Released  string `json:"released,omitempty"`
	Overview  string `json:"overview,omitempty"`
	Thumbnail string `json:"thumbnail,omitempty"`
}

// Preferences are per-user playback defaults.
type Preferences struct {
	DefaultQuality   string `json:"defaultQuality"`
	DefaultLanguage  string `json:"defaultLanguage"`
	DefaultSubtitles string `json:"defaultSubtitles"`
	AutoplayNext     bool   `json:"autoplayNext"`
}

func DefaultPreferences() Preferences {
	return Preferences{
		DefaultQuality:   Quality1080p,
		DefaultLanguage:  "original",
		DefaultSubtitles: "en",
		AutoplayNext:     true,
	}
}

// UserState is a point-in-time copy of everything stored for one user.
// History holds watch keys, most recent first.
type UserState struct {
	UserID      string                   `json:"userId"`
	Progress    map[string]WatchProgress `json:"progress"`
	History     []string                 `json:"history"`
	Preferences Preferences              `json:"preferences"`
}
