package models

import "strings"

// MediaKind is the addon-facing content type.
type MediaKind string

const (
	MediaKindMovie  MediaKind = "movie"
	MediaKindSeries MediaKind = "series"
)

// ParseMediaKind accepts the addon type names plus TMDB's "tv".
func ParseMediaKind(raw string) (MediaKind, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "movie":
		return MediaKindMovie, true
	case "series", "tv":
		return MediaKindSeries, true
	}
	return "", false
}

// ProviderPath returns the TMDB path segment for the kind.
func (k MediaKind) ProviderPath() string {
	if k == MediaKindSeries {
		return "tv"
	}
	return "movie"
}

// DiscoverQuery filters a paged discover call. Zero GenreID means no genre filter.
type DiscoverQuery struct {
	Page             int
	GenreID          int
	OriginalLanguage string
}

// Title is one row of a provider result page.
type Title struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"posterPath,omitempty"`
	BackdropPath     string  `json:"backdropPath,omitempty"`
	ReleaseDate      string  `json:"releaseDate,omitempty"` // release_date or first_air_date
	OriginalLanguage string  `json:"originalLanguage,omitempty"`
	VoteAverage      float64 `json:"voteAverage"`
	VoteCount        int     `json:"voteCount"`
	Popularity       float64 `json:"popularity,omitempty"`
}

type TitlePage struct {
	Page         int     `json:"page"`
	TotalPages   int     `json:"totalPages"`
	TotalResults int     `json:"totalResults"`
	Results      []Title `json:"results"`
}

type Video struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	PublishedAt string `json:"publishedAt,omitempty"`
}

type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character,omitempty"`
	Order     int    `json:"order"`
}

type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department,omitempty"`
}

type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// TitleDetails is a single provider record with the credits, videos and images extras.
type TitleDetails struct {
	Title
	Genres         []string `json:"genres"`
	RuntimeMinutes int      `json:"runtimeMinutes,omitempty"`
	EpisodeRunTime []int    `json:"episodeRunTime,omitempty"`
	LastAirDate    string   `json:"lastAirDate,omitempty"`
	Status         string   `json:"status,omitempty"`
	InProduction   bool     `json:"inProduction,omitempty"`
	Homepage       string   `json:"homepage,omitempty"`
	Credits        Credits  `json:"credits"`
	Videos         []Video  `json:"videos"`
	LogoPaths      []string `json:"logoPaths,omitempty"`
}

type EpisodeDetails struct {
	SeriesID       int64  `json:"seriesId"`
	SeasonNumber   int    `json:"seasonNumber"`
	EpisodeNumber  int    `json:"episodeNumber"`
	Name           string `json:"name"`
	Overview       string `json:"overview,omitempty"`
	AirDate        string `json:"airDate,omitempty"`
	StillPath      string `json:"stillPath,omitempty"`
	RuntimeMinutes int    `json:"runtimeMinutes,omitempty"`
}

type SeasonDetails struct {
	SeriesID     int64            `json:"seriesId"`
	SeasonNumber int              `json:"seasonNumber"`
	Name         string           `json:"name"`
	Episodes     []EpisodeDetails `json:"episodes"`
}
