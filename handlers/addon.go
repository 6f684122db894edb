package handlers

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"minnal/config"
	"minnal/models"
	"minnal/services/catalog"
	"minnal/services/details"
	"minnal/services/identity"
	"minnal/services/streams"

	"github.com/gorilla/mux"
)

type catalogService interface {
	BuildCatalog(ctx context.Context, q models.CatalogQuery) ([]models.MetaPreview, error)
}

type detailService interface {
	BuildDetail(ctx context.Context, rawID string, kind models.MediaKind) (*models.MetaDetail, error)
}

type streamService interface {
	BuildStreams(ctx context.Context, req models.StreamRequest) ([]models.Stream, error)
}

var (
	_ catalogService = (*catalog.Service)(nil)
	_ detailService  = (*details.Service)(nil)
	_ streamService  = (*streams.Service)(nil)
)

// AddonHandler serves the addon protocol: manifest, catalog, meta and stream.
type AddonHandler struct {
	Catalogs catalogService
	Details  detailService
	Streams  streamService
	Addon    config.AddonSettings
}

func NewAddonHandler(catalogs catalogService, detailSvc detailService, streamSvc streamService, addon config.AddonSettings) *AddonHandler {
	return &AddonHandler{Catalogs: catalogs, Details: detailSvc, Streams: streamSvc, Addon: addon}
}

func (h *AddonHandler) Manifest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, models.Manifest{
		ID:          h.Addon.ID,
		Version:     h.Addon.Version,
		Name:        h.Addon.Name,
		Description: h.Addon.Description,
		Resources:   []string{"catalog", "meta", "stream"},
		Types:       []models.MediaKind{models.MediaKindMovie, models.MediaKindSeries},
		IDPrefixes:  []string{identity.ForeignPrefix, identity.LocalPrefix, identity.FallbackPrefix},
		Catalogs:    catalog.ManifestCatalogs(),
		Logo:        h.Addon.Logo,
		Background:  h.Addon.Background,
	})
}

func (h *AddonHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := models.ParseMediaKind(vars["type"])
	if !ok {
		writeJSONError(w, "unknown type", http.StatusBadRequest)
		return
	}

	extra, err := parseExtra(vars["extra"])
	if err != nil {
		writeJSONError(w, "invalid extra", http.StatusBadRequest)
		return
	}
	q := models.CatalogQuery{Kind: kind, CatalogID: vars["id"], Genre: strings.TrimSpace(extra.Get("genre"))}
	if raw := extra.Get("skip"); raw != "" {
		skip, err := strconv.Atoi(raw)
		if err != nil || skip < 0 {
			writeJSONError(w, "skip must be a non-negative integer", http.StatusBadRequest)
			return
		}
		q.Skip = skip
	}

	metas, err := h.Catalogs.BuildCatalog(r.Context(), q)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, models.CatalogResponse{Metas: metas})
}

func (h *AddonHandler) Meta(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := models.ParseMediaKind(vars["type"])
	if !ok {
		writeJSONError(w, "unknown type", http.StatusBadRequest)
		return
	}

	meta, err := h.Details.BuildDetail(r.Context(), vars["id"], kind)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, models.MetaResponse{Meta: meta})
}

func (h *AddonHandler) Stream(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	kind, ok := models.ParseMediaKind(vars["type"])
	if !ok {
		writeJSONError(w, "unknown type", http.StatusBadRequest)
		return
	}
	extra, err := parseExtra(vars["extra"])
	if err != nil {
		writeJSONError(w, "invalid extra", http.StatusBadRequest)
		return
	}

	req, err := parseStreamRequest(vars["id"], kind, extra)
	if err != nil {
		writeJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := h.Streams.BuildStreams(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, models.StreamResponse{Streams: list})
}

// parseExtra decodes the optional "key=value&key=value" path segment.
func parseExtra(raw string) (url.Values, error) {
	raw = strings.TrimSuffix(raw, ".json")
	if raw == "" {
		return url.Values{}, nil
	}
	return url.ParseQuery(raw)
}

// parseStreamRequest accepts the episode as "id:season:episode", as
// season/episode extras, or as video=se{S}ep{E}. The colon form wins.
func parseStreamRequest(rawID string, kind models.MediaKind, extra url.Values) (models.StreamRequest, error) {
	req := models.StreamRequest{RawID: strings.TrimSpace(rawID), Kind: kind}

	if parts := strings.Split(req.RawID, ":"); len(parts) > 1 {
		if len(parts) != 3 {
			return req, fmt.Errorf("invalid episode id %q", rawID)
		}
		season, err1 := strconv.Atoi(parts[1])
		episode, err2 := strconv.Atoi(parts[2])
		if err1 != nil || err2 != nil {
			return req, fmt.Errorf("invalid episode id %q", rawID)
		}
		req.RawID = parts[0]
		req.Season, req.Episode = &season, &episode
		return req, nil
	}

	if video := extra.Get("video"); video != "" {
		var season, episode int
		if _, err := fmt.Sscanf(strings.ToLower(video), "se%dep%d", &season, &episode); err != nil {
			return req, fmt.Errorf("invalid video %q", video)
		}
		req.Season, req.Episode = &season, &episode
		return req, nil
	}

	if s, e := extra.Get("season"), extra.Get("episode"); s != "" || e != "" {
		season, err1 := strconv.Atoi(s)
		episode, err2 := strconv.Atoi(e)
		if err1 != nil || err2 != nil {
			return req, fmt.Errorf("invalid season or episode")
		}
		req.Season, req.Episode = &season, &episode
	}
	return req, nil
}
