package history

import (
	"context"
	"fmt"
	"log"
	"strings"

	"minnal/models"
	"minnal/services/metadata"

	"github.com/sourcegraph/conc/pool"
)

const (
	defaultContinueLimit = 20
	maxContinueLimit     = 100
	enrichWorkers        = 5
	rolloverEpisodes     = 3
)

// ContinueWatching returns started but unfinished entries from the most
// recent limit history keys, in recency order.
func (s *Service) ContinueWatching(ctx context.Context, userID string, limit int) ([]models.WatchProgress, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrUserIDRequired
	}
	if limit <= 0 {
		limit = defaultContinueLimit
	}
	if limit > maxContinueLimit {
		limit = maxContinueLimit
	}

	recent := s.store.History(userID, limit)
	items := make([]models.WatchProgress, 0, len(recent))
	for _, entry := range recent {
		if !entry.Finished && entry.FractionWatched > 0 {
			items = append(items, entry)
		}
	}

	p := pool.New().WithMaxGoroutines(enrichWorkers)
	for i := range items {
		if items[i].Enrichment != nil {
			continue
		}
		i := i
		p.Go(func() {
			enrichment, ok := s.enrich(ctx, items[i])
			if !ok {
				return
			}
			if updated, ok := s.store.SetEnrichment(userID, items[i].Key, enrichment); ok {
				items[i].Enrichment = updated.Enrichment
			}
		})
	}
	p.Wait()

	return items, nil
}

// NextEpisodes lists what follows season/episode. When the current season
// has nothing left it rolls over to the first episodes of the next one.
func (s *Service) NextEpisodes(ctx context.Context, itemID string, season, episode int) []models.EpisodeRef {
	out := []models.EpisodeRef{}
	if s.metadataService == nil || s.ids == nil {
		return out
	}
	id, err := s.ids.ResolveRaw(ctx, strings.TrimSpace(itemID), models.MediaKindSeries)
	if err != nil {
		log.Printf("[history] next episodes resolve failed item=%s err=%v", itemID, err)
		return out
	}

	current, err := s.metadataService.Season(ctx, id.ProviderID, season)
	if err == nil {
		for _, ep := range current.Episodes {
			if ep.EpisodeNumber > episode {
				out = append(out, episodeRef(season, ep))
			}
		}
		if len(out) > 0 {
			return out
		}
	}

	next, err := s.metadataService.Season(ctx, id.ProviderID, season+1)
	if err != nil {
		return out
	}
	for _, ep := range next.Episodes {
		if len(out) == rolloverEpisodes {
			break
		}
		out = append(out, episodeRef(season+1, ep))
	}
	return out
}

func episodeRef(season int, ep models.EpisodeDetails) models.EpisodeRef {
	ref := models.EpisodeRef{
		ID:       fmt.Sprintf("se%dep%d", season, ep.EpisodeNumber),
		Title:    ep.Name,
		Season:   season,
		Episode:  ep.EpisodeNumber,
		Released: ep.AirDate,
		Overview: ep.Overview,
	}
	if still := metadata.ImageURL(ep.StillPath, metadata.ThumbnailSize); still != nil {
		ref.Thumbnail = *still
	}
	return ref
}
