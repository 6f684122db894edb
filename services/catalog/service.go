package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"

	"minnal/models"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/utils/format"

	"github.com/sourcegraph/conc/iter"
)

var ErrUnknownCatalog = errors.New("unknown catalog")

type discoverer interface {
	Discover(ctx context.Context, kind models.MediaKind, q models.DiscoverQuery) (*models.TitlePage, error)
}

// ForeignIDs maps tmdb ids to foreign ids, never failing.
type ForeignIDs interface {
	ForeignID(ctx context.Context, kind models.MediaKind, tmdbID int64) string
}

var _ ForeignIDs = (*identity.Resolver)(nil)

type Service struct {
	provider      discoverer
	ids           ForeignIDs
	ratingScale   int
	lookupWorkers int
}

func NewService(provider discoverer, ids ForeignIDs, ratingScale int) *Service {
	return &Service{
		provider:      provider,
		ids:           ids,
		ratingScale:   ratingScale,
		lookupWorkers: 8,
	}
}

// BuildCatalog returns one page of a catalog. Provider failures degrade to an
// empty page; only unknown catalogs and missing credentials are errors.
func (s *Service) BuildCatalog(ctx context.Context, q models.CatalogQuery) ([]models.MetaPreview, error) {
	def, ok := Lookup(q.CatalogID, q.Kind)
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", ErrUnknownCatalog, q.Kind, q.CatalogID)
	}

	dq := models.DiscoverQuery{
		Page:             PageForSkip(q.Skip),
		OriginalLanguage: def.Region.OriginalLanguage,
	}
	if genreID, ok := GenreID(def.Kind, q.Genre); ok {
		dq.GenreID = genreID
	}

	page, err := s.provider.Discover(ctx, def.Kind, dq)
	if err != nil {
		if errors.Is(err, metadata.ErrNotConfigured) {
			return nil, err
		}
		log.Printf("[catalog] discover failed catalog=%s page=%d genre=%q err=%v", def.ID, dq.Page, q.Genre, err)
		return []models.MetaPreview{}, nil
	}
	if page == nil || len(page.Results) == 0 {
		return []models.MetaPreview{}, nil
	}

	ids := make([]string, len(page.Results))
	if def.Region.Namespace == identity.NamespaceLocal {
		for i, row := range page.Results {
			ids[i] = identity.LocalID(row.ID)
		}
	} else {
		mapper := iter.Mapper[models.Title, string]{MaxGoroutines: s.lookupWorkers}
		ids = mapper.Map(page.Results, func(row *models.Title) string {
			return s.ids.ForeignID(ctx, def.Kind, row.ID)
		})
	}

	metas := make([]models.MetaPreview, 0, len(page.Results))
	for i, row := range page.Results {
		metas = append(metas, Preview(row, ids[i], def.Kind, def.Region, s.ratingScale))
	}
	return metas, nil
}

// Preview projects a provider row into a catalog entry.
func Preview(row models.Title, id string, kind models.MediaKind, region Region, ratingScale int) models.MetaPreview {
	return models.MetaPreview{
		ID:          id,
		Type:        kind,
		Name:        row.Name,
		Poster:      metadata.ImageURL(row.PosterPath, metadata.PosterSize),
		Background:  metadata.ImageURL(row.BackdropPath, metadata.OriginalSize),
		ReleaseInfo: format.Year(row.ReleaseDate),
		IMDBRating:  format.Rating(row.VoteAverage, ratingScale),
		Description: row.Overview,
		Language:    region.Language,
		Country:     region.Country,
	}
}
