package metadata

import (
	"context"

	"minnal/models"
)

//go:generate mockgen -destination=mocks/mock_provider.go -package=mocks minnal/services/metadata Provider

// Provider is the full metadata capability. Consumers declare the subset they need.
type Provider interface {
	Discover(ctx context.Context, kind models.MediaKind, q models.DiscoverQuery) (*models.TitlePage, error)
	Details(ctx context.Context, kind models.MediaKind, tmdbID int64, extras []string) (*models.TitleDetails, error)
	Episode(ctx context.Context, seriesID int64, season, episode int) (*models.EpisodeDetails, error)
	Season(ctx context.Context, seriesID int64, season int) (*models.SeasonDetails, error)
	FindByExternalID(ctx context.Context, externalID string, kind models.MediaKind) (int64, error)
	ExternalID(ctx context.Context, kind models.MediaKind, tmdbID int64) (string, error)
	Recommendations(ctx context.Context, kind models.MediaKind, tmdbID int64) (*models.TitlePage, error)
}

var _ Provider = (*Client)(nil)
