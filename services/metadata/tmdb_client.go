package metadata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"strings"
	"sync"
	"time"

	"minnal/models"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"

	PosterSize    = "w500"
	ThumbnailSize = "w300"
	OriginalSize  = "original"
)

// DetailExtras is the append_to_response set used for full detail records.
var DetailExtras = []string{"credits", "videos", "images"}

// ClientOptions configures a Client. Zero values pick defaults.
type ClientOptions struct {
	APIKey            string
	Language          string
	HTTPClient        *http.Client
	RequestsPerSecond int
	// MaxAttempts of 1 (the default) never retries.
	MaxAttempts int
	Timeout     time.Duration
}

// Client is a typed wrapper over the TMDB v3 api.
type Client struct {
	apiKey   string
	language string
	baseURL  string
	httpc    *http.Client
	limiter  *rate.Limiter
	attempts uint

	warnOnce sync.Once
}

func NewClient(opts ClientOptions) *Client {
	httpc := opts.HTTPClient
	if httpc == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpc = &http.Client{Timeout: timeout}
	}
	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 40
	}
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	return &Client{
		apiKey:   strings.TrimSpace(opts.APIKey),
		language: strings.TrimSpace(opts.Language),
		baseURL:  tmdbBaseURL,
		httpc:    httpc,
		limiter:  rate.NewLimiter(rate.Limit(rps), rps),
		attempts: uint(attempts),
	}
}

func (c *Client) isConfigured() bool {
	return c != nil && c.apiKey != ""
}

// doGET performs a paced GET and decodes the JSON body into v.
func (c *Client) doGET(ctx context.Context, params url.Values, v any, segments ...string) error {
	if !c.isConfigured() {
		c.warnOnce.Do(func() {
			log.Printf("[tmdb] api key not configured; every provider call will fail")
		})
		return ErrNotConfigured
	}

	endpoint, err := url.JoinPath(c.baseURL, segments...)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if params == nil {
		params = url.Values{}
	}
	params.Set("api_key", c.apiKey)
	target := endpoint + "?" + params.Encode()
	logPath := "/" + strings.Join(segments, "/")

	err = retry.Do(
		func() error { return c.getOnce(ctx, target, v) },
		retry.Context(ctx),
		retry.Attempts(c.attempts),
		retry.Delay(300*time.Millisecond),
		retry.DelayType(retry.BackOffDelay),
		retry.LastErrorOnly(true),
		retry.RetryIf(isRetryable),
		retry.OnRetry(func(n uint, err error) {
			log.Printf("[tmdb] retrying path=%s attempt=%d/%d err=%v", logPath, n+1, c.attempts, err)
		}),
	)
	if err == nil {
		return nil
	}
	if !isProviderError(err) {
		err = fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	if !errors.Is(err, ErrNotFound) {
		log.Printf("[tmdb] request failed path=%s err=%v", logPath, err)
	}
	return err
}

func (c *Client) getOnce(ctx context.Context, target string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: %w", ErrNotFound, &statusError{Code: resp.StatusCode, Status: resp.Status})
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: %w", ErrUnavailable, &statusError{Code: resp.StatusCode, Status: resp.Status})
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	return nil
}

// isRetryable only matters when MaxAttempts > 1.
func isRetryable(err error) bool {
	var se *statusError
	if errors.As(err, &se) {
		return se.Code == http.StatusTooManyRequests || se.Code >= 500
	}
	var ue *url.Error
	return errors.As(err, &ue)
}

type tmdbResult struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Name             string  `json:"name"`
	Overview         string  `json:"overview"`
	PosterPath       string  `json:"poster_path"`
	BackdropPath     string  `json:"backdrop_path"`
	ReleaseDate      string  `json:"release_date"`
	FirstAirDate     string  `json:"first_air_date"`
	OriginalLanguage string  `json:"original_language"`
	VoteAverage      float64 `json:"vote_average"`
	VoteCount        int     `json:"vote_count"`
	Popularity       float64 `json:"popularity"`
}

func (r tmdbResult) toTitle() models.Title {
	name := r.Title
	if name == "" {
		name = r.Name
	}
	date := r.ReleaseDate
	if date == "" {
		date = r.FirstAirDate
	}
	return models.Title{
		ID:               r.ID,
		Name:             name,
		Overview:         r.Overview,
		PosterPath:       r.PosterPath,
		BackdropPath:     r.BackdropPath,
		ReleaseDate:      date,
		OriginalLanguage: r.OriginalLanguage,
		VoteAverage:      r.VoteAverage,
		VoteCount:        r.VoteCount,
		Popularity:       r.Popularity,
	}
}

type tmdbResultPage struct {
	Page         int          `json:"page"`
	TotalPages   int          `json:"total_pages"`
	TotalResults int          `json:"total_results"`
	Results      []tmdbResult `json:"results"`
}

func (p tmdbResultPage) toPage() *models.TitlePage {
	out := &models.TitlePage{
		Page:         p.Page,
		TotalPages:   p.TotalPages,
		TotalResults: p.TotalResults,
		Results:      make([]models.Title, 0, len(p.Results)),
	}
	for _, r := range p.Results {
		if r.ID == 0 {
			continue
		}
		out.Results = append(out.Results, r.toTitle())
	}
	return out
}

type tmdbVideo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Key         string `json:"key"`
	Site        string `json:"site"`
	Type        string `json:"type"`
	PublishedAt string `json:"published_at"`
}

type tmdbDetails struct {
	tmdbResult
	Genres []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"genres"`
	Runtime        int    `json:"runtime"`
	EpisodeRunTime []int  `json:"episode_run_time"`
	LastAirDate    string `json:"last_air_date"`
	Status         string `json:"status"`
	InProduction   bool   `json:"in_production"`
	Homepage       string `json:"homepage"`
	Credits        struct {
		Cast []struct {
			Name      string `json:"name"`
			Character string `json:"character"`
			Order     int    `json:"order"`
		} `json:"cast"`
		Crew []struct {
			Name       string `json:"name"`
			Job        string `json:"job"`
			Department string `json:"department"`
		} `json:"crew"`
	} `json:"credits"`
	Videos struct {
		Results []tmdbVideo `json:"results"`
	} `json:"videos"`
	Images struct {
		Logos []struct {
			FilePath string `json:"file_path"`
		} `json:"logos"`
	} `json:"images"`
}

type tmdbEpisode struct {
	ID            int64  `json:"id"`
	Name          string `json:"name"`
	Overview      string `json:"overview"`
	AirDate       string `json:"air_date"`
	SeasonNumber  int    `json:"season_number"`
	EpisodeNumber int    `json:"episode_number"`
	StillPath     string `json:"still_path"`
	Runtime       int    `json:"runtime"`
}

func (e tmdbEpisode) toEpisode(seriesID int64) models.EpisodeDetails {
	return models.EpisodeDetails{
		SeriesID:       seriesID,
		SeasonNumber:   e.SeasonNumber,
		EpisodeNumber:  e.EpisodeNumber,
		Name:           e.Name,
		Overview:       e.Overview,
		AirDate:        e.AirDate,
		StillPath:      e.StillPath,
		RuntimeMinutes: e.Runtime,
	}
}

type tmdbSeason struct {
	ID           int64         `json:"id"`
	Name         string        `json:"name"`
	SeasonNumber int           `json:"season_number"`
	Episodes     []tmdbEpisode `json:"episodes"`
}

type tmdbFindResponse struct {
	MovieResults []struct {
		ID int64 `json:"id"`
	} `json:"movie_results"`
	TVResults []struct {
		ID int64 `json:"id"`
	} `json:"tv_results"`
}

type tmdbExternalIDsResponse struct {
	IMDBID string `json:"imdb_id"`
}

// Discover returns one popularity-sorted page filtered by original language and genre.
func (c *Client) Discover(ctx context.Context, kind models.MediaKind, q models.DiscoverQuery) (*models.TitlePage, error) {
	page := q.Page
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("language", c.languageOr("en"))
	params.Set("sort_by", "popularity.desc")
	params.Set("page", strconv.Itoa(page))
	if lang := strings.TrimSpace(q.OriginalLanguage); lang != "" {
		params.Set("with_original_language", lang)
	}
	if q.GenreID > 0 {
		params.Set("with_genres", strconv.Itoa(q.GenreID))
	}

	var payload tmdbResultPage
	if err := c.doGET(ctx, params, &payload, "discover", kind.ProviderPath()); err != nil {
		return nil, fmt.Errorf("discover %s page %d: %w", kind, page, err)
	}
	return payload.toPage(), nil
}

// Details fetches a single record, appending the requested extras.
func (c *Client) Details(ctx context.Context, kind models.MediaKind, tmdbID int64, extras []string) (*models.TitleDetails, error) {
	params := url.Values{}
	params.Set("language", normalizeLanguage(c.language))
	if len(extras) > 0 {
		params.Set("append_to_response", strings.Join(extras, ","))
	}

	var payload tmdbDetails
	if err := c.doGET(ctx, params, &payload, kind.ProviderPath(), strconv.FormatInt(tmdbID, 10)); err != nil {
		return nil, fmt.Errorf("details %s/%d: %w", kind, tmdbID, err)
	}
	if payload.ID == 0 {
		return nil, fmt.Errorf("details %s/%d: %w: missing id", kind, tmdbID, ErrMalformed)
	}

	details := &models.TitleDetails{
		Title:          payload.toTitle(),
		Genres:         make([]string, 0, len(payload.Genres)),
		RuntimeMinutes: payload.Runtime,
		EpisodeRunTime: payload.EpisodeRunTime,
		LastAirDate:    payload.LastAirDate,
		Status:         payload.Status,
		InProduction:   payload.InProduction,
		Homepage:       strings.TrimSpace(payload.Homepage),
		Credits: models.Credits{
			Cast: make([]models.CastMember, 0, len(payload.Credits.Cast)),
			Crew: make([]models.CrewMember, 0, len(payload.Credits.Crew)),
		},
		Videos: make([]models.Video, 0, len(payload.Videos.Results)),
	}
	for _, g := range payload.Genres {
		if name := strings.TrimSpace(g.Name); name != "" {
			details.Genres = append(details.Genres, name)
		}
	}
	for _, m := range payload.Credits.Cast {
		details.Credits.Cast = append(details.Credits.Cast, models.CastMember{Name: m.Name, Character: m.Character, Order: m.Order})
	}
	for _, m := range payload.Credits.Crew {
		details.Credits.Crew = append(details.Credits.Crew, models.CrewMember{Name: m.Name, Job: m.Job, Department: m.Department})
	}
	for _, v := range payload.Videos.Results {
		details.Videos = append(details.Videos, models.Video{
			ID:          v.ID,
			Name:        v.Name,
			Key:         v.Key,
			Site:        v.Site,
			Type:        v.Type,
			PublishedAt: v.PublishedAt,
		})
	}
	for _, logo := range payload.Images.Logos {
		if p := strings.TrimSpace(logo.FilePath); p != "" {
			details.LogoPaths = append(details.LogoPaths, p)
		}
	}
	return details, nil
}

// Episode fetches one episode of a series.
func (c *Client) Episode(ctx context.Context, seriesID int64, season, episode int) (*models.EpisodeDetails, error) {
	params := url.Values{}
	params.Set("language", normalizeLanguage(c.language))

	var payload tmdbEpisode
	err := c.doGET(ctx, params, &payload,
		"tv", strconv.FormatInt(seriesID, 10),
		"season", strconv.Itoa(season),
		"episode", strconv.Itoa(episode))
	if err != nil {
		return nil, fmt.Errorf("episode tv/%d s%de%d: %w", seriesID, season, episode, err)
	}
	out := payload.toEpisode(seriesID)
	return &out, nil
}

// Season fetches a season with its episode list.
func (c *Client) Season(ctx context.Context, seriesID int64, season int) (*models.SeasonDetails, error) {
	params := url.Values{}
	params.Set("language", normalizeLanguage(c.language))

	var payload tmdbSeason
	err := c.doGET(ctx, params, &payload, "tv", strconv.FormatInt(seriesID, 10), "season", strconv.Itoa(season))
	if err != nil {
		return nil, fmt.Errorf("season tv/%d s%d: %w", seriesID, season, err)
	}
	out := &models.SeasonDetails{
		SeriesID:     seriesID,
		SeasonNumber: payload.SeasonNumber,
		Name:         payload.Name,
		Episodes:     make([]models.EpisodeDetails, 0, len(payload.Episodes)),
	}
	for _, ep := range payload.Episodes {
		out.Episodes = append(out.Episodes, ep.toEpisode(seriesID))
	}
	return out, nil
}

// FindByExternalID maps an IMDb id to a tmdb id for the given kind.
func (c *Client) FindByExternalID(ctx context.Context, externalID string, kind models.MediaKind) (int64, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return 0, fmt.Errorf("find: %w: external id required", ErrNotFound)
	}
	params := url.Values{}
	params.Set("external_source", "imdb_id")

	var payload tmdbFindResponse
	if err := c.doGET(ctx, params, &payload, "find", externalID); err != nil {
		return 0, fmt.Errorf("find %s: %w", externalID, err)
	}

	results := payload.MovieResults
	if kind == models.MediaKindSeries {
		results = payload.TVResults
	}
	for _, r := range results {
		if r.ID > 0 {
			return r.ID, nil
		}
	}
	return 0, fmt.Errorf("find %s (%s): %w", externalID, kind, ErrNotFound)
}

// ExternalID returns the IMDb id tmdb holds for a record.
func (c *Client) ExternalID(ctx context.Context, kind models.MediaKind, tmdbID int64) (string, error) {
	var payload tmdbExternalIDsResponse
	err := c.doGET(ctx, nil, &payload, kind.ProviderPath(), strconv.FormatInt(tmdbID, 10), "external_ids")
	if err != nil {
		return "", fmt.Errorf("external_ids %s/%d: %w", kind, tmdbID, err)
	}
	imdbID := strings.TrimSpace(payload.IMDBID)
	if imdbID == "" {
		return "", fmt.Errorf("external_ids %s/%d: %w: no imdb id", kind, tmdbID, ErrNotFound)
	}
	return imdbID, nil
}

// Recommendations returns tmdb's recommendations for a record.
func (c *Client) Recommendations(ctx context.Context, kind models.MediaKind, tmdbID int64) (*models.TitlePage, error) {
	params := url.Values{}
	params.Set("language", normalizeLanguage(c.language))

	var payload tmdbResultPage
	err := c.doGET(ctx, params, &payload, kind.ProviderPath(), strconv.FormatInt(tmdbID, 10), "recommendations")
	if err != nil {
		return nil, fmt.Errorf("recommendations %s/%d: %w", kind, tmdbID, err)
	}
	return payload.toPage(), nil
}

func (c *Client) languageOr(fallback string) string {
	if c.language == "" {
		return fallback
	}
	return c.language
}

// ImageURL builds a tmdb image url, or nil when the path is empty.
func ImageURL(imagePath, size string) *string {
	trimmed := strings.TrimSpace(imagePath)
	if trimmed == "" {
		return nil
	}
	full := fmt.Sprintf("%s/%s", tmdbImageBaseURL, path.Join(size, strings.TrimPrefix(trimmed, "/")))
	return &full
}

func normalizeLanguage(lang string) string {
	lang = strings.ReplaceAll(lang, "_", "-")
	if len(lang) == 2 {
		return strings.ToLower(lang) + "-US"
	}
	if len(lang) >= 5 {
		return strings.ToLower(lang[:2]) + "-" + strings.ToUpper(lang[3:])
	}
	return "en-US"
}
