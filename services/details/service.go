// Package details builds full addon meta records from tmdb detail responses.
package details

import (
	"context"
	"fmt"
	"log"
	"strings"

	"minnal/models"
	"minnal/services/catalog"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/utils/format"
)

const (
	maxCast             = 10
	highlyRatedMinVotes = 1000
)

type detailer interface {
	Details(ctx context.Context, kind models.MediaKind, tmdbID int64, extras []string) (*models.TitleDetails, error)
}

type resolver interface {
	ResolveRaw(ctx context.Context, raw string, kind models.MediaKind) (identity.ContentIdentity, error)
}

var _ resolver = (*identity.Resolver)(nil)

type Service struct {
	provider    detailer
	ids         resolver
	ratingScale int
}

func NewService(provider detailer, ids resolver, ratingScale int) *Service {
	return &Service{provider: provider, ids: ids, ratingScale: ratingScale}
}

// BuildDetail resolves rawID and assembles its meta record. Any failure is
// returned to the caller.
func (s *Service) BuildDetail(ctx context.Context, rawID string, kind models.MediaKind) (*models.MetaDetail, error) {
	id, err := s.ids.ResolveRaw(ctx, rawID, kind)
	if err != nil {
		log.Printf("[details] resolve failed id=%s kind=%s err=%v", rawID, kind, err)
		return nil, err
	}

	record, err := s.provider.Details(ctx, kind, id.ProviderID, metadata.DetailExtras)
	if err != nil {
		log.Printf("[details] fetch failed id=%s tmdbId=%d kind=%s err=%v", rawID, id.ProviderID, kind, err)
		return nil, fmt.Errorf("meta %s: %w", rawID, err)
	}
	return s.assemble(id, kind, record), nil
}

func (s *Service) assemble(id identity.ContentIdentity, kind models.MediaKind, record *models.TitleDetails) *models.MetaDetail {
	region := catalog.RegionFor(id.Namespace)

	meta := &models.MetaDetail{
		ID:          id.RawID,
		Type:        kind,
		Name:        record.Name,
		Description: record.Overview,
		Genres:      nonNil(record.Genres),
		PosterShape: "poster",
		Poster:      metadata.ImageURL(record.PosterPath, metadata.OriginalSize),
		Background:  metadata.ImageURL(record.BackdropPath, metadata.OriginalSize),
		IMDBRating:  format.Rating(record.VoteAverage, s.ratingScale),
		Language:    region.Language,
		Videos:      trailers(record.Videos),
		Director:    directors(record.Credits.Crew),
		Cast:        topCast(record.Credits.Cast),
		Awards:      awards(region, record.VoteCount),
		BehaviorHints: models.MetaBehaviorHints{
			DefaultVideoID:     "default",
			HasScheduledVideos: false,
		},
	}
	if region.Country != "" {
		country := region.Country
		meta.Country = &country
	}
	if len(record.LogoPaths) > 0 {
		meta.Logo = metadata.ImageURL(record.LogoPaths[0], metadata.OriginalSize)
	}
	if record.Homepage != "" {
		homepage := record.Homepage
		meta.Website = &homepage
	}

	if kind == models.MediaKindSeries {
		meta.ReleaseInfo = format.ReleaseRange(record.ReleaseDate, record.LastAirDate, isOngoing(record))
		runtime := 0
		if len(record.EpisodeRunTime) > 0 {
			runtime = record.EpisodeRunTime[0]
		}
		meta.Runtime = format.Runtime(runtime)
	} else {
		if year := format.Year(record.ReleaseDate); year != nil {
			meta.ReleaseInfo = *year
		}
		meta.Runtime = format.Runtime(record.RuntimeMinutes)
	}
	return meta
}

func isOngoing(record *models.TitleDetails) bool {
	if record.InProduction {
		return true
	}
	switch strings.ToLower(record.Status) {
	case "returning series", "in production", "planned":
		return true
	}
	return false
}

func trailers(videos []models.Video) []models.Trailer {
	out := make([]models.Trailer, 0, len(videos))
	for _, v := range videos {
		if !strings.EqualFold(v.Site, "YouTube") || strings.TrimSpace(v.Key) == "" {
			continue
		}
		released := v.PublishedAt
		if len(released) > 10 {
			released = released[:10]
		}
		out = append(out, models.Trailer{
			ID:        v.ID,
			Title:     v.Name,
			Released:  released,
			Thumbnail: fmt.Sprintf("https://img.youtube.com/vi/%s/maxresdefault.jpg", v.Key),
			Streams:   []models.TrailerStream{{YtID: v.Key}},
		})
	}
	return out
}

func directors(crew []models.CrewMember) []string {
	out := make([]string, 0, 1)
	for _, member := range crew {
		if member.Job == "Director" && member.Name != "" {
			out = append(out, member.Name)
		}
	}
	return out
}

// topCast keeps billing order as returned by tmdb.
func topCast(cast []models.CastMember) []string {
	out := make([]string, 0, maxCast)
	for _, member := range cast {
		if len(out) == maxCast {
			break
		}
		if member.Name != "" {
			out = append(out, member.Name)
		}
	}
	return out
}

func awards(region catalog.Region, voteCount int) *string {
	var label string
	switch {
	case region.Namespace == identity.NamespaceLocal:
		label = "Highly Rated Malayalam Content"
	case voteCount > highlyRatedMinVotes:
		label = "Highly Rated Content"
	default:
		return nil
	}
	return &label
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
