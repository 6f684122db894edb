package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Settings represents the application configuration persisted to disk.
type Settings struct {
	Server   ServerSettings   `json:"server"`
	Addon    AddonSettings    `json:"addon"`
	Metadata MetadataSettings `json:"metadata"`
	Streams  StreamSettings   `json:"streams"`
	Cache    CacheSettings    `json:"cache"`
	Log      LogConfig        `json:"log"`
}

type ServerSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// AddonSettings describes the manifest served to addon clients.
type AddonSettings struct {
	ID          string `json:"id"`
	Version     string `json:"version"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Logo        string `json:"logo,omitempty"`
	Background  string `json:"background,omitempty"`
}

type MetadataSettings struct {
	TMDBAPIKey string `json:"tmdbApiKey"`
	Language   string `json:"language"`
	// RatingScale is 10 (native TMDB votes) or 5 (halved).
	RatingScale       int `json:"ratingScale"`
	RequestsPerSecond int `json:"requestsPerSecond"`
	// MaxAttempts of 1 disables retries.
	MaxAttempts    int `json:"maxAttempts"`
	TimeoutSeconds int `json:"timeoutSeconds"`
}

type StreamSettings struct {
	BaseURL         string `json:"baseUrl"`
	SubtitleBaseURL string `json:"subtitleBaseUrl"`
}

type CacheSettings struct {
	IDCacheSize       int `json:"idCacheSize"`
	IDCacheTTLMinutes int `json:"idCacheTtlMinutes"`
}

type LogConfig struct {
	File       string `json:"file"`
	MaxSize    int    `json:"maxSize"`
	MaxAge     int    `json:"maxAge"`
	MaxBackups int    `json:"maxBackups"`
	Compress   bool   `json:"compress"`
}

func DefaultSettings() Settings {
	return Settings{
		Server: ServerSettings{Host: "0.0.0.0", Port: 5000},
		Addon: AddonSettings{
			ID:          "org.minnal",
			Version:     "1.0.0",
			Name:        "Minnal",
			Description: "Malayalam and English movies and series",
		},
		Metadata: MetadataSettings{
			Language:          "en",
			RatingScale:       10,
			RequestsPerSecond: 40,
			MaxAttempts:       1,
			TimeoutSeconds:    15,
		},
		Streams: StreamSettings{
			BaseURL:         "http://127.0.0.1:5000",
			SubtitleBaseURL: "http://127.0.0.1:5000/static/subtitles",
		},
		Cache: CacheSettings{IDCacheSize: 4096, IDCacheTTLMinutes: 360},
		Log: LogConfig{
			File:       "cache/logs/minnal.log",
			MaxSize:    50,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
	}
}

// Manager loads and persists settings to a JSON file.
type Manager struct {
	path string
}

func NewManager(configPath string) *Manager {
	return &Manager{path: configPath}
}

// EnsureDir ensures parent directory exists.
func (m *Manager) EnsureDir() error {
	dir := filepath.Dir(m.path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

// Load reads settings.json from disk or creates defaults if missing.
// Environment overrides are applied on top and never written back.
func (m *Manager) Load() (Settings, error) {
	if m.path == "" {
		return Settings{}, errors.New("config path not set")
	}
	if _, err := os.Stat(m.path); errors.Is(err, fs.ErrNotExist) {
		defaults := DefaultSettings()
		if err := m.Save(defaults); err != nil {
			return Settings{}, err
		}
		return applyEnv(defaults), nil
	}
	f, err := os.Open(m.path)
	if err != nil {
		return Settings{}, err
	}
	defer f.Close()

	s := DefaultSettings()
	if err := json.NewDecoder(f).Decode(&s); err != nil {
		return Settings{}, err
	}
	return applyEnv(backfill(s)), nil
}

// backfill restores defaults for zero values an older file may carry.
func backfill(s Settings) Settings {
	defaults := DefaultSettings()
	if s.Server.Port == 0 {
		s.Server.Port = defaults.Server.Port
	}
	if strings.TrimSpace(s.Addon.ID) == "" {
		s.Addon = defaults.Addon
	}
	if s.Metadata.RatingScale != 5 && s.Metadata.RatingScale != 10 {
		s.Metadata.RatingScale = defaults.Metadata.RatingScale
	}
	if s.Metadata.RequestsPerSecond <= 0 {
		s.Metadata.RequestsPerSecond = defaults.Metadata.RequestsPerSecond
	}
	if s.Metadata.MaxAttempts <= 0 {
		s.Metadata.MaxAttempts = defaults.Metadata.MaxAttempts
	}
	if s.Metadata.TimeoutSeconds <= 0 {
		s.Metadata.TimeoutSeconds = defaults.Metadata.TimeoutSeconds
	}
	if s.Cache.IDCacheSize <= 0 {
		s.Cache.IDCacheSize = defaults.Cache.IDCacheSize
	}
	if s.Cache.IDCacheTTLMinutes <= 0 {
		s.Cache.IDCacheTTLMinutes = defaults.Cache.IDCacheTTLMinutes
	}
	s.Streams.BaseURL = strings.TrimRight(strings.TrimSpace(s.Streams.BaseURL), "/")
	s.Streams.SubtitleBaseURL = strings.TrimRight(strings.TrimSpace(s.Streams.SubtitleBaseURL), "/")
	return s
}

func applyEnv(s Settings) Settings {
	if key := strings.TrimSpace(os.Getenv("TMDB_API_KEY")); key != "" {
		s.Metadata.TMDBAPIKey = key
	}
	if raw := strings.TrimSpace(os.Getenv("PORT")); raw != "" {
		if port, err := strconv.Atoi(raw); err == nil && port > 0 {
			s.Server.Port = port
		}
	}
	return s
}

// Save writes the provided settings to disk atomically.
func (m *Manager) Save(s Settings) error {
	if m.path == "" {
		return errors.New("config path not set")
	}
	if err := m.EnsureDir(); err != nil {
		return err
	}
	tmp := m.path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, m.path)
}
