package models

// Addon protocol shapes. Nullable fields are pointers without omitempty so
// clients always see the key.

const (
	Quality2160p = "2160p"
	Quality1080p = "1080p"
	Quality720p  = "720p"
	Quality480p  = "480p"
)

// Qualities lists the stream ladder from best to worst.
var Qualities = []string{Quality2160p, Quality1080p, Quality720p, Quality480p}

func IsKnownQuality(q string) bool {
	for _, known := range Qualities {
		if known == q {
			return true
		}
	}
	return false
}

type Manifest struct {
	ID          string            `json:"id"`
	Version     string            `json:"version"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Resources   []string          `json:"resources"`
	Types       []MediaKind       `json:"types"`
	IDPrefixes  []string          `json:"idPrefixes"`
	Catalogs    []ManifestCatalog `json:"catalogs"`
	Logo        string            `json:"logo,omitempty"`
	Background  string            `json:"background,omitempty"`
}

type ManifestCatalog struct {
	Type  MediaKind      `json:"type"`
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	Extra []CatalogExtra `json:"extra,omitempty"`
}

type CatalogExtra struct {
	Name       string   `json:"name"`
	Options    []string `json:"options,omitempty"`
	IsRequired bool     `json:"isRequired,omitempty"`
}

// CatalogQuery is one catalog request. Empty Genre means unfiltered.
type CatalogQuery struct {
	Kind      MediaKind
	CatalogID string
	Skip      int
	Genre     string
}

// MetaPreview is one catalog or recommendation row.
type MetaPreview struct {
	ID          string    `json:"id"`
	Type        MediaKind `json:"type"`
	Name        string    `json:"name"`
	Poster      *string   `json:"poster"`
	Background  *string   `json:"background"`
	ReleaseInfo *string   `json:"releaseInfo"`
	IMDBRating  *string   `json:"imdbRating"`
	Description string    `json:"description"`
	Language    string    `json:"language,omitempty"`
	Country     string    `json:"country,omitempty"`
}

type MetaDetail struct {
	ID            string            `json:"id"`
	Type          MediaKind         `json:"type"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	ReleaseInfo   string            `json:"releaseInfo"`
	Runtime       string            `json:"runtime"`
	Genres        []string          `json:"genres"`
	PosterShape   string            `json:"posterShape"`
	Poster        *string           `json:"poster"`
	Background    *string           `json:"background"`
	Logo          *string           `json:"logo"`
	IMDBRating    *string           `json:"imdbRating"`
	Language      string            `json:"language"`
	Country       *string           `json:"country"`
	Videos        []Trailer         `json:"videos"`
	Director      []string          `json:"director"`
	Cast          []string          `json:"cast"`
	Awards        *string           `json:"awards"`
	Website       *string           `json:"website"`
	BehaviorHints MetaBehaviorHints `json:"behaviorHints"`
}

type Trailer struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Released  string          `json:"released"`
	Thumbnail string          `json:"thumbnail"`
	Streams   []TrailerStream `json:"streams"`
}

type TrailerStream struct {
	YtID string `json:"ytId"`
}

type MetaBehaviorHints struct {
	DefaultVideoID     string `json:"defaultVideoId"`
	HasScheduledVideos bool   `json:"hasScheduledVideos"`
}

// StreamRequest identifies what to play. Season and Episode are set together for series.
type StreamRequest struct {
	RawID   string
	Kind    MediaKind
	Season  *int
	Episode *int
}

type Stream struct {
	Name          string              `json:"name"`
	Title         string              `json:"title"`
	URL           string              `json:"url"`
	Description   string              `json:"description"`
	Quality       string              `json:"quality"`
	Subtitles     []Subtitle          `json:"subtitles"`
	BehaviorHints StreamBehaviorHints `json:"behaviorHints"`
}

type Subtitle struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Lang  string `json:"lang"`
	Label string `json:"label"`
}

type StreamBehaviorHints struct {
	BingeGroup      string `json:"bingeGroup"`
	NotWebReady     bool   `json:"notWebReady"`
	DefaultSubtitle string `json:"defaultSubtitle,omitempty"`
}

type CatalogResponse struct {
	Metas []MetaPreview `json:"metas"`
}

type MetaResponse struct {
	Meta *MetaDetail `json:"meta"`
}

type StreamResponse struct {
	Streams []Stream `json:"streams"`
}
