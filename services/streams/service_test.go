package streams

import (
	"context"
	"errors"
	"testing"
	"time"

	"minnal/models"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/services/metadata/mocks"

	"go.uber.org/mock/gomock"
)

func intPtr(v int) *int { return &v }

func newService(t *testing.T) (*Service, *mocks.MockProvider) {
	t.Helper()
	ctrl := gomock.NewController(t)
	provider := mocks.NewMockProvider(ctrl)
	svc := NewService(provider, identity.NewResolver(provider, 32, time.Minute), Options{
		AddonName:       "Minnal",
		BaseURL:         "https://cdn.example.org/",
		SubtitleBaseURL: "https://cdn.example.org/static/subtitles",
	})
	return svc, provider
}

func TestBuildStreamsLocalSeriesEpisode(t *testing.T) {
	svc, provider := newService(t)
	provider.EXPECT().Details(gomock.Any(), models.MediaKindSeries, int64(42), gomock.Any()).
		Return(&models.TitleDetails{Title: models.Title{ID: 42, Name: "Kerala Crime Files"}}, nil)
	provider.EXPECT().Episode(gomock.Any(), int64(42), 1, 3).
		Return(&models.EpisodeDetails{Name: "The Lodge"}, nil)

	streams, err := svc.BuildStreams(context.Background(), models.StreamRequest{
		RawID: "ml42", Kind: models.MediaKindSeries, Season: intPtr(1), Episode: intPtr(3),
	})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if len(streams) != 4 {
		t.Fatalf("expected 4 variants, got %d", len(streams))
	}

	wantQualities := []string{"2160p", "1080p", "720p", "480p"}
	for i, stream := range streams {
		if stream.Quality != wantQualities[i] {
			t.Fatalf("variant %d quality %s, want %s", i, stream.Quality, wantQualities[i])
		}
		if stream.BehaviorHints.BingeGroup != "minnal-ml-42-s1" {
			t.Fatalf("unexpected binge group %q", stream.BehaviorHints.BingeGroup)
		}
		if len(stream.Subtitles) != 5 || stream.Subtitles[1].Lang != "ml" || stream.BehaviorHints.DefaultSubtitle != "ml" {
			t.Fatalf("unexpected local subtitles %+v", stream.Subtitles)
		}
	}

	top := streams[0]
	if top.Title != "Kerala Crime Files S1E3 - The Lodge - 2160p" {
		t.Fatalf("unexpected title %q", top.Title)
	}
	if top.URL != "https://cdn.example.org/stream/ml/42/series/1/3/2160p" {
		t.Fatalf("unexpected url %q", top.URL)
	}
	if top.Name != "Minnal 4K" || top.Description != "Premium 2160p Quality - Size: 4-8 GB" {
		t.Fatalf("unexpected labels %q %q", top.Name, top.Description)
	}
	if streams[3].Description != "Premium 480p Quality - Size: 600-800 MB" {
		t.Fatalf("unexpected SD description %q", streams[3].Description)
	}
	sub := top.Subtitles[1]
	if sub.URL != "https://cdn.example.org/static/subtitles/ml.vtt" || sub.Label != "Malayalam" {
		t.Fatalf("unexpected subtitle %+v", sub)
	}
}

func TestBuildStreamsForeignMovie(t *testing.T) {
	svc, provider := newService(t)
	provider.EXPECT().FindByExternalID(gomock.Any(), "tt0133093", models.MediaKindMovie).Return(int64(603), nil)
	provider.EXPECT().Details(gomock.Any(), models.MediaKindMovie, int64(603), gomock.Any()).
		Return(&models.TitleDetails{Title: models.Title{ID: 603, Name: "The Matrix", ReleaseDate: "1999-03-30"}}, nil)

	streams, err := svc.BuildStreams(context.Background(), models.StreamRequest{RawID: "tt0133093", Kind: models.MediaKindMovie})
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if streams[1].Title != "The Matrix (1999) - 1080p" {
		t.Fatalf("unexpected title %q", streams[1].Title)
	}
	if streams[1].URL != "https://cdn.example.org/stream/en/603/movie/1080p" {
		t.Fatalf("unexpected url %q", streams[1].URL)
	}
	if streams[0].BehaviorHints.BingeGroup != "minnal-en-603" {
		t.Fatalf("unexpected binge group %q", streams[0].BehaviorHints.BingeGroup)
	}
	if streams[0].Subtitles[0].Lang != "en" || streams[0].Subtitles[4].Lang != "ml" || streams[0].BehaviorHints.DefaultSubtitle != "en" {
		t.Fatalf("unexpected foreign subtitle order %+v", streams[0].Subtitles)
	}
}

func TestBuildStreamsTitleLookupDegrades(t *testing.T) {
	svc, provider := newService(t)
	provider.EXPECT().Details(gomock.Any(), models.MediaKindSeries, int64(7), gomock.Any()).Return(nil, metadata.ErrUnavailable)
	provider.EXPECT().Episode(gomock.Any(), int64(7), 2, 1).Return(nil, metadata.ErrNotFound)

	streams, err := svc.BuildStreams(context.Background(), models.StreamRequest{
		RawID: "ml7", Kind: models.MediaKindSeries, Season: intPtr(2), Episode: intPtr(1),
	})
	if err != nil {
		t.Fatalf("title lookups must not fail the request: %v", err)
	}
	if streams[2].Title != "Series S2E1 - 720p" {
		t.Fatalf("unexpected generic title %q", streams[2].Title)
	}
}

func TestBuildStreamsBingeGroupsDifferBySeason(t *testing.T) {
	svc, provider := newService(t)
	provider.EXPECT().Details(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.TitleDetails{Title: models.Title{ID: 42, Name: "Show"}}, nil).AnyTimes()
	provider.EXPECT().Episode(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(&models.EpisodeDetails{Name: "Ep"}, nil).AnyTimes()

	build := func(season, episode int) string {
		streams, err := svc.BuildStreams(context.Background(), models.StreamRequest{
			RawID: "ml42", Kind: models.MediaKindSeries, Season: intPtr(season), Episode: intPtr(episode),
		})
		if err != nil {
			t.Fatalf("build: %v", err)
		}
		return streams[0].BehaviorHints.BingeGroup
	}
	if build(1, 1) != build(1, 5) {
		t.Fatalf("episodes of one season must share a binge group")
	}
	if build(1, 1) == build(2, 1) {
		t.Fatalf("different seasons must not share a binge group")
	}
}

func TestBuildStreamsRequiresEpisodeForSeries(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.BuildStreams(context.Background(), models.StreamRequest{RawID: "ml42", Kind: models.MediaKindSeries, Season: intPtr(1)})
	if !errors.Is(err, ErrEpisodeRequired) {
		t.Fatalf("expected ErrEpisodeRequired, got %v", err)
	}
}

func TestBuildStreamsResolutionFailureIsFatal(t *testing.T) {
	svc, provider := newService(t)
	provider.EXPECT().FindByExternalID(gomock.Any(), "tt404", models.MediaKindMovie).Return(int64(0), metadata.ErrNotFound)

	if _, err := svc.BuildStreams(context.Background(), models.StreamRequest{RawID: "tt404", Kind: models.MediaKindMovie}); !errors.Is(err, identity.ErrResolution) {
		t.Fatalf("expected resolution failure, got %v", err)
	}
}

func TestLanguageLabel(t *testing.T) {
	tests := map[string]string{"en": "English", "ml": "Malayalam", "de": "German", "fr": "French", "es": "Spanish"}
	for code, want := range tests {
		if got := languageLabel(code); got != want {
			t.Fatalf("languageLabel(%q) = %q, want %q", code, got, want)
		}
	}
}
