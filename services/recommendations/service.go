// Package recommendations derives "because you watched" previews from watch history.
package recommendations

import (
	"context"
	"errors"
	"log"
	"strings"

	"minnal/models"
	"minnal/services/catalog"
	"minnal/services/identity"
	"minnal/services/metadata"

	"github.com/sourcegraph/conc/iter"
)

const (
	maxSourceItems = 5
	perItem        = 5
	maxResults     = 20
	historyWindow  = 50
)

type historyReader interface {
	History(userID string, limit int) []models.WatchProgress
}

type recommender interface {
	Recommendations(ctx context.Context, kind models.MediaKind, tmdbID int64) (*models.TitlePage, error)
}

type resolver interface {
	ResolveRaw(ctx context.Context, raw string, kind models.MediaKind) (identity.ContentIdentity, error)
	ForeignID(ctx context.Context, kind models.MediaKind, tmdbID int64) string
}

var _ resolver = (*identity.Resolver)(nil)

type Service struct {
	history     historyReader
	provider    recommender
	ids         resolver
	ratingScale int
}

func NewService(history historyReader, provider recommender, ids resolver, ratingScale int) *Service {
	return &Service{history: history, provider: provider, ids: ids, ratingScale: ratingScale}
}

type source struct {
	itemID string
	kind   models.MediaKind
}

// Recommendations returns up to 20 previews related to the user's most
// recently watched titles. It is best-effort and never fails.
func (s *Service) Recommendations(ctx context.Context, userID string) []models.MetaPreview {
	sources := recentSources(s.history.History(strings.TrimSpace(userID), historyWindow))
	if len(sources) == 0 {
		return []models.MetaPreview{}
	}

	mapper := iter.Mapper[source, []models.MetaPreview]{MaxGoroutines: maxSourceItems}
	groups := mapper.Map(sources, func(src *source) []models.MetaPreview {
		return s.forSource(ctx, *src)
	})

	out := make([]models.MetaPreview, 0, maxResults)
	seen := make(map[string]struct{})
	for _, group := range groups {
		for _, preview := range group {
			if _, dup := seen[preview.ID]; dup {
				continue
			}
			seen[preview.ID] = struct{}{}
			out = append(out, preview)
			if len(out) == maxResults {
				return out
			}
		}
	}
	return out
}

// recentSources keeps distinct titles in recency order. Episodes of one
// series collapse into a single source.
func recentSources(entries []models.WatchProgress) []source {
	out := make([]source, 0, maxSourceItems)
	seen := make(map[source]struct{})
	for _, entry := range entries {
		src := source{itemID: entry.ItemID, kind: entry.ItemType}
		if _, dup := seen[src]; dup {
			continue
		}
		seen[src] = struct{}{}
		out = append(out, src)
		if len(out) == maxSourceItems {
			break
		}
	}
	return out
}

func (s *Service) forSource(ctx context.Context, src source) []models.MetaPreview {
	id, err := s.ids.ResolveRaw(ctx, src.itemID, src.kind)
	if err != nil {
		log.Printf("[recommendations] resolve failed item=%s err=%v", src.itemID, err)
		return nil
	}
	page, err := s.provider.Recommendations(ctx, src.kind, id.ProviderID)
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			log.Printf("[recommendations] fetch failed item=%s tmdbId=%d err=%v", src.itemID, id.ProviderID, err)
		}
		return nil
	}
	if page == nil {
		return nil
	}

	rows := page.Results
	if len(rows) > perItem {
		rows = rows[:perItem]
	}
	region := catalog.RegionFor(id.Namespace)
	out := make([]models.MetaPreview, 0, len(rows))
	for _, row := range rows {
		var previewID string
		if id.Namespace == identity.NamespaceLocal {
			previewID = identity.LocalID(row.ID)
		} else {
			previewID = s.ids.ForeignID(ctx, src.kind, row.ID)
		}
		out = append(out, catalog.Preview(row, previewID, src.kind, region, s.ratingScale))
	}
	return out
}
