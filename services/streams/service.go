// Package streams synthesizes the playable stream list for a title.
package streams

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"minnal/models"
	"minnal/services/identity"
	"minnal/services/metadata"
	"minnal/utils/format"

	"github.com/sourcegraph/conc/pool"
)

var ErrEpisodeRequired = errors.New("season and episode are required for series streams")

type provider interface {
	Details(ctx context.Context, kind models.MediaKind, tmdbID int64, extras []string) (*models.TitleDetails, error)
	Episode(ctx context.Context, seriesID int64, season, episode int) (*models.EpisodeDetails, error)
}

type resolver interface {
	ResolveRaw(ctx context.Context, raw string, kind models.MediaKind) (identity.ContentIdentity, error)
}

var _ resolver = (*identity.Resolver)(nil)

type Options struct {
	AddonName       string
	BaseURL         string
	SubtitleBaseURL string
}

type Service struct {
	provider provider
	ids      resolver
	opts     Options
}

func NewService(provider provider, ids resolver, opts Options) *Service {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.SubtitleBaseURL = strings.TrimRight(opts.SubtitleBaseURL, "/")
	if opts.AddonName == "" {
		opts.AddonName = "Minnal"
	}
	return &Service{provider: provider, ids: ids, opts: opts}
}

// displayInfo is fetched for titles only; lookups degrade to generic names.
type displayInfo struct {
	title        string
	year         string
	episodeTitle string
}

// BuildStreams returns one stream per ladder rung, best first.
func (s *Service) BuildStreams(ctx context.Context, req models.StreamRequest) ([]models.Stream, error) {
	series := req.Kind == models.MediaKindSeries
	if series && (req.Season == nil || req.Episode == nil || *req.Season < 0 || *req.Episode < 1) {
		return nil, ErrEpisodeRequired
	}

	id, err := s.ids.ResolveRaw(ctx, req.RawID, req.Kind)
	if err != nil {
		log.Printf("[streams] resolve failed id=%s kind=%s err=%v", req.RawID, req.Kind, err)
		return nil, err
	}

	info, err := s.lookupDisplay(ctx, id, req)
	if err != nil {
		return nil, err
	}

	region := regionCode(id.Namespace)
	subs := s.subtitles(id.Namespace)
	defaultSub := subtitleSets[id.Namespace].Default

	bingeGroup := fmt.Sprintf("minnal-%s-%d", region, id.ProviderID)
	if series {
		bingeGroup = fmt.Sprintf("%s-s%d", bingeGroup, *req.Season)
	}

	out := make([]models.Stream, 0, len(ladder))
	for _, v := range ladder {
		var title, url string
		if series {
			title = fmt.Sprintf("%s S%dE%d", info.title, *req.Season, *req.Episode)
			if info.episodeTitle != "" {
				title += " - " + info.episodeTitle
			}
			title += " - " + v.Resolution
			url = fmt.Sprintf("%s/stream/%s/%d/series/%d/%d/%s", s.opts.BaseURL, region, id.ProviderID, *req.Season, *req.Episode, v.Resolution)
		} else {
			title = info.title
			if info.year != "" {
				title += " (" + info.year + ")"
			}
			title += " - " + v.Resolution
			url = fmt.Sprintf("%s/stream/%s/%d/movie/%s", s.opts.BaseURL, region, id.ProviderID, v.Resolution)
		}

		out = append(out, models.Stream{
			Name:        s.opts.AddonName + " " + v.Label,
			Title:       title,
			URL:         url,
			Description: fmt.Sprintf("Premium %s Quality - Size: %s", v.Resolution, v.Size),
			Quality:     v.Resolution,
			Subtitles:   subs,
			BehaviorHints: models.StreamBehaviorHints{
				BingeGroup:      bingeGroup,
				NotWebReady:     false,
				DefaultSubtitle: defaultSub,
			},
		})
	}
	return out, nil
}

// lookupDisplay fetches the title and episode name in parallel. Only a
// missing credential is an error.
func (s *Service) lookupDisplay(ctx context.Context, id identity.ContentIdentity, req models.StreamRequest) (displayInfo, error) {
	info := displayInfo{title: "Movie"}
	if req.Kind == models.MediaKindSeries {
		info.title = "Series"
	}

	var detailsErr, episodeErr error
	p := pool.New()
	p.Go(func() {
		record, err := s.provider.Details(ctx, req.Kind, id.ProviderID, nil)
		if err != nil {
			detailsErr = err
			return
		}
		if record.Name != "" {
			info.title = record.Name
		}
		if year := format.Year(record.ReleaseDate); year != nil {
			info.year = *year
		}
	})
	if req.Kind == models.MediaKindSeries {
		p.Go(func() {
			ep, err := s.provider.Episode(ctx, id.ProviderID, *req.Season, *req.Episode)
			if err != nil {
				episodeErr = err
				return
			}
			info.episodeTitle = ep.Name
		})
	}
	p.Wait()

	for _, err := range []error{detailsErr, episodeErr} {
		if err == nil {
			continue
		}
		if errors.Is(err, metadata.ErrNotConfigured) {
			return displayInfo{}, err
		}
		log.Printf("[streams] title lookup failed id=%s tmdbId=%d err=%v", req.RawID, id.ProviderID, err)
	}
	return info, nil
}

func (s *Service) subtitles(ns identity.Namespace) []models.Subtitle {
	set := subtitleSets[ns]
	out := make([]models.Subtitle, 0, len(set.Languages))
	for _, lang := range set.Languages {
		out = append(out, models.Subtitle{
			ID:    lang,
			URL:   fmt.Sprintf("%s/%s.vtt", s.opts.SubtitleBaseURL, lang),
			Lang:  lang,
			Label: languageLabel(lang),
		})
	}
	return out
}
