package history

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"minnal/models"
	"minnal/services/identity"
	"minnal/services/metadata"

	"github.com/sourcegraph/conc/pool"
)

// MetadataService is the provider subset used for enrichment and up-next lookups.
type MetadataService interface {
	Details(ctx context.Context, kind models.MediaKind, tmdbID int64, extras []string) (*models.TitleDetails, error)
	Episode(ctx context.Context, seriesID int64, season, episode int) (*models.EpisodeDetails, error)
	Season(ctx context.Context, seriesID int64, season int) (*models.SeasonDetails, error)
}

type resolver interface {
	ResolveRaw(ctx context.Context, raw string, kind models.MediaKind) (identity.ContentIdentity, error)
}

var _ resolver = (*identity.Resolver)(nil)

// Service records playback progress and derives continue-watching and
// up-next views. Provider calls happen outside the store locks.
type Service struct {
	store           Store
	metadataService MetadataService
	ids             resolver
	enrichTimeout   time.Duration
}

func NewService(store Store, ids resolver) *Service {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Service{store: store, ids: ids, enrichTimeout: 10 * time.Second}
}

// SetMetadataService enables enrichment. Without it entries carry no display data.
func (s *Service) SetMetadataService(svc MetadataService) {
	s.metadataService = svc
}

// RecordProgress stores a position report and enriches the entry once.
// Enrichment failures never fail the write.
func (s *Service) RecordProgress(ctx context.Context, userID string, update models.ProgressUpdate) (models.WatchProgress, error) {
	entry, err := s.store.RecordProgress(userID, update)
	if err != nil {
		return models.WatchProgress{}, err
	}
	userID = strings.TrimSpace(userID)

	if entry.Enrichment == nil {
		if enrichment, ok := s.enrich(ctx, entry); ok {
			if updated, ok := s.store.SetEnrichment(userID, entry.Key, enrichment); ok {
				entry.Enrichment = updated.Enrichment
			}
		}
	}

	if entry.ItemType == models.MediaKindSeries && entry.Finished && entry.NextEpisode == nil &&
		s.store.Preferences(userID).AutoplayNext {
		next := s.NextEpisodes(ctx, entry.ItemID, *entry.Season, *entry.Episode)
		if len(next) > 0 {
			if updated, ok := s.store.SetNextEpisode(userID, entry.Key, &next[0], entry.LastWatchedAt); ok {
				entry.NextEpisode = updated.NextEpisode
			}
		}
	}
	return entry, nil
}

func (s *Service) GetOrCreateUser(userID string) (models.UserState, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.UserState{}, ErrUserIDRequired
	}
	return s.store.GetOrCreateUser(userID), nil
}

func (s *Service) Preferences(userID string) (models.Preferences, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return models.Preferences{}, ErrUserIDRequired
	}
	return s.store.Preferences(userID), nil
}

func (s *Service) UpdatePreferences(userID string, prefs models.Preferences) (models.Preferences, error) {
	return s.store.SetPreferences(userID, prefs)
}

// History exposes recency-ordered entries for other engines.
func (s *Service) History(userID string, limit int) []models.WatchProgress {
	return s.store.History(userID, limit)
}

// enrich fetches display data for an entry. It reports false when the title
// itself could not be fetched.
func (s *Service) enrich(ctx context.Context, entry models.WatchProgress) (models.Enrichment, bool) {
	if s.metadataService == nil || s.ids == nil {
		return models.Enrichment{}, false
	}
	ctx, cancel := context.WithTimeout(ctx, s.enrichTimeout)
	defer cancel()

	id, err := s.ids.ResolveRaw(ctx, entry.ItemID, entry.ItemType)
	if err != nil {
		log.Printf("[history] enrichment resolve failed item=%s type=%s err=%v", entry.ItemID, entry.ItemType, err)
		return models.Enrichment{}, false
	}

	var (
		enrichment models.Enrichment
		detailsErr error
	)
	p := pool.New()
	p.Go(func() {
		record, err := s.metadataService.Details(ctx, entry.ItemType, id.ProviderID, nil)
		if err != nil {
			detailsErr = err
			return
		}
		enrichment.Title = record.Name
		if poster := metadata.ImageURL(record.PosterPath, metadata.ThumbnailSize); poster != nil {
			enrichment.Poster = *poster
		}
	})
	if entry.ItemType == models.MediaKindSeries && entry.Season != nil && entry.Episode != nil {
		p.Go(func() {
			ep, err := s.metadataService.Episode(ctx, id.ProviderID, *entry.Season, *entry.Episode)
			if err != nil {
				if !errors.Is(err, metadata.ErrNotFound) {
					log.Printf("[history] episode enrichment failed key=%s err=%v", entry.Key, err)
				}
				return
			}
			enrichment.EpisodeTitle = ep.Name
			if still := metadata.ImageURL(ep.StillPath, metadata.ThumbnailSize); still != nil {
				enrichment.Thumbnail = *still
			}
		})
	}
	p.Wait()

	if detailsErr != nil {
		log.Printf("[history] enrichment failed key=%s tmdbId=%d err=%v", entry.Key, id.ProviderID, detailsErr)
		return models.Enrichment{}, false
	}
	return enrichment, true
}
