package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"minnal/models"
	"minnal/services/metadata"
	"minnal/services/metadata/mocks"

	"go.uber.org/mock/gomock"
)

type fakeForeignIDs struct {
	mu    sync.Mutex
	known map[int64]string
	calls int
}

func (f *fakeForeignIDs) ForeignID(ctx context.Context, kind models.MediaKind, tmdbID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if id, ok := f.known[tmdbID]; ok {
		return id
	}
	return fmt.Sprintf("tmdb%d", tmdbID)
}

func TestPageForSkip(t *testing.T) {
	tests := map[int]int{0: 1, 1: 1, 19: 1, 20: 2, 39: 2, 40: 3, 1000: 51, -5: 1}
	for skip, want := range tests {
		if got := PageForSkip(skip); got != want {
			t.Fatalf("PageForSkip(%d) = %d, want %d", skip, got, want)
		}
	}
	prev := PageForSkip(0)
	for skip := 1; skip < 500; skip++ {
		page := PageForSkip(skip)
		if page < prev {
			t.Fatalf("page decreased at skip %d", skip)
		}
		prev = page
	}
}

func TestGenreID(t *testing.T) {
	if id, ok := GenreID(models.MediaKindMovie, "Action"); !ok || id != 28 {
		t.Fatalf("expected movie action 28, got %d %v", id, ok)
	}
	if id, ok := GenreID(models.MediaKindSeries, "action"); !ok || id != 10759 {
		t.Fatalf("expected series action 10759, got %d %v", id, ok)
	}
	if _, ok := GenreID(models.MediaKindSeries, "horror"); ok {
		t.Fatalf("horror is not a series genre")
	}
	if _, ok := GenreID(models.MediaKindMovie, ""); ok {
		t.Fatalf("empty genre must not match")
	}
}

func TestBuildCatalogLocalRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	ids := &fakeForeignIDs{}

	provider.EXPECT().
		Discover(gomock.Any(), models.MediaKindMovie, models.DiscoverQuery{Page: 2, GenreID: 18, OriginalLanguage: "ml"}).
		Return(&models.TitlePage{Results: []models.Title{
			{ID: 42, Name: "Drishyam", ReleaseDate: "2013-12-19", VoteAverage: 8.1, PosterPath: "/d.jpg", Overview: "A cable operator."},
			{ID: 43, Name: "Untitled"},
		}}, nil)

	svc := NewService(provider, ids, 10)
	metas, err := svc.BuildCatalog(context.Background(), models.CatalogQuery{
		Kind: models.MediaKindMovie, CatalogID: "minnal-malayalam-movies", Skip: 25, Genre: "drama",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(metas))
	}
	first := metas[0]
	if first.ID != "ml42" || first.Language != "Malayalam" || first.Country != "India" {
		t.Fatalf("unexpected local row %+v", first)
	}
	if first.Poster == nil || *first.Poster != "https://image.tmdb.org/t/p/w500/d.jpg" {
		t.Fatalf("unexpected poster %v", first.Poster)
	}
	if first.ReleaseInfo == nil || *first.ReleaseInfo != "2013" || first.IMDBRating == nil || *first.IMDBRating != "8.1" {
		t.Fatalf("unexpected year/rating %v %v", first.ReleaseInfo, first.IMDBRating)
	}
	second := metas[1]
	if second.Poster != nil || second.Background != nil || second.ReleaseInfo != nil || second.IMDBRating != nil {
		t.Fatalf("expected nil optional fields, got %+v", second)
	}
	if ids.calls != 0 {
		t.Fatalf("local catalogs must not reverse lookup, got %d calls", ids.calls)
	}
}

func TestBuildCatalogForeignRowsKeepOrderAndFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	ids := &fakeForeignIDs{known: map[int64]string{1: "tt0000001", 3: "tt0000003"}}

	rows := make([]models.Title, 0, 20)
	for i := int64(1); i <= 20; i++ {
		rows = append(rows, models.Title{ID: i, Name: fmt.Sprintf("Show %d", i)})
	}
	provider.EXPECT().
		Discover(gomock.Any(), models.MediaKindSeries, models.DiscoverQuery{Page: 1, OriginalLanguage: "en"}).
		Return(&models.TitlePage{Results: rows}, nil)

	svc := NewService(provider, ids, 10)
	metas, err := svc.BuildCatalog(context.Background(), models.CatalogQuery{
		Kind: models.MediaKindSeries, CatalogID: "minnal-english-series",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(metas) != 20 {
		t.Fatalf("rows must never be dropped, got %d", len(metas))
	}
	if metas[0].ID != "tt0000001" || metas[1].ID != "tmdb2" || metas[2].ID != "tt0000003" {
		t.Fatalf("unexpected ids %s %s %s", metas[0].ID, metas[1].ID, metas[2].ID)
	}
	for i, meta := range metas {
		if meta.Name != fmt.Sprintf("Show %d", i+1) {
			t.Fatalf("order not preserved at %d: %s", i, meta.Name)
		}
		if meta.Language != "English" || meta.Country != "" {
			t.Fatalf("unexpected tags %+v", meta)
		}
	}
}

func TestBuildCatalogUnknownGenreIsUnfiltered(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)

	provider.EXPECT().
		Discover(gomock.Any(), models.MediaKindMovie, models.DiscoverQuery{Page: 1, OriginalLanguage: "ml"}).
		Return(&models.TitlePage{Results: []models.Title{{ID: 7, Name: "Premam"}}}, nil).
		Times(2)

	svc := NewService(provider, &fakeForeignIDs{}, 10)
	filtered, err := svc.BuildCatalog(context.Background(), models.CatalogQuery{
		Kind: models.MediaKindMovie, CatalogID: "minnal-malayalam-movies", Genre: "space-opera",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	plain, err := svc.BuildCatalog(context.Background(), models.CatalogQuery{
		Kind: models.MediaKindMovie, CatalogID: "minnal-malayalam-movies",
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(filtered) != len(plain) || filtered[0].ID != plain[0].ID {
		t.Fatalf("unknown genre should match the unfiltered result")
	}
}

func TestBuildCatalogEmptyAndFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	svc := NewService(provider, &fakeForeignIDs{}, 10)
	query := models.CatalogQuery{Kind: models.MediaKindSeries, CatalogID: "minnal-malayalam-series"}

	provider.EXPECT().Discover(gomock.Any(), gomock.Any(), gomock.Any()).Return(&models.TitlePage{}, nil)
	metas, err := svc.BuildCatalog(context.Background(), query)
	if err != nil || metas == nil || len(metas) != 0 {
		t.Fatalf("expected empty non-nil list, got %#v %v", metas, err)
	}

	provider.EXPECT().Discover(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, metadata.ErrUnavailable)
	metas, err = svc.BuildCatalog(context.Background(), query)
	if err != nil || len(metas) != 0 {
		t.Fatalf("provider failures must degrade to empty, got %#v %v", metas, err)
	}

	provider.EXPECT().Discover(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, metadata.ErrNotConfigured)
	if _, err := svc.BuildCatalog(context.Background(), query); !errors.Is(err, metadata.ErrNotConfigured) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestBuildCatalogUnknownCatalog(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewService(mocks.NewMockProvider(ctrl), &fakeForeignIDs{}, 10)

	_, err := svc.BuildCatalog(context.Background(), models.CatalogQuery{Kind: models.MediaKindSeries, CatalogID: "minnal-malayalam-movies"})
	if !errors.Is(err, ErrUnknownCatalog) {
		t.Fatalf("expected ErrUnknownCatalog for type mismatch, got %v", err)
	}
}

func TestManifestCatalogs(t *testing.T) {
	catalogs := ManifestCatalogs()
	if len(catalogs) != 4 {
		t.Fatalf("expected 4 catalogs, got %d", len(catalogs))
	}
	if catalogs[0].ID != "minnal-malayalam-movies" || catalogs[0].Extra[0].Name != "genre" {
		t.Fatalf("unexpected first catalog %+v", catalogs[0])
	}
	if len(catalogs[1].Extra[0].Options) != len(seriesGenres) {
		t.Fatalf("series catalog should list series genres")
	}
}
