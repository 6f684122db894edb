package catalog

import (
	"sort"
	"strings"

	"minnal/models"
	"minnal/services/identity"
)

// PageSize matches tmdb's discover page size.
const PageSize = 20

// Region carries the language tags of a catalog family.
type Region struct {
	Namespace        identity.Namespace
	OriginalLanguage string
	Language         string
	Country          string
}

var (
	RegionLocal   = Region{Namespace: identity.NamespaceLocal, OriginalLanguage: "ml", Language: "Malayalam", Country: "India"}
	RegionForeign = Region{Namespace: identity.NamespaceForeign, OriginalLanguage: "en", Language: "English"}
)

// RegionFor returns the region that owns ids of the given namespace.
func RegionFor(ns identity.Namespace) Region {
	if ns == identity.NamespaceLocal {
		return RegionLocal
	}
	return RegionForeign
}

type Definition struct {
	ID     string
	Kind   models.MediaKind
	Name   string
	Region Region
}

var definitions = []Definition{
	{ID: "minnal-malayalam-movies", Kind: models.MediaKindMovie, Name: "Malayalam Movies", Region: RegionLocal},
	{ID: "minnal-malayalam-series", Kind: models.MediaKindSeries, Name: "Malayalam Series", Region: RegionLocal},
	{ID: "minnal-english-movies", Kind: models.MediaKindMovie, Name: "English Movies", Region: RegionForeign},
	{ID: "minnal-english-series", Kind: models.MediaKindSeries, Name: "English Series", Region: RegionForeign},
}

var movieGenres = map[string]int{
	"action":          28,
	"adventure":       12,
	"animation":       16,
	"comedy":          35,
	"crime":           80,
	"documentary":     99,
	"drama":           18,
	"family":          10751,
	"fantasy":         14,
	"history":         36,
	"horror":          27,
	"music":           10402,
	"mystery":         9648,
	"romance":         10749,
	"science-fiction": 878,
	"thriller":        53,
	"war":             10752,
	"western":         37,
}

var seriesGenres = map[string]int{
	"action":      10759,
	"adventure":   10759,
	"animation":   16,
	"comedy":      35,
	"crime":       80,
	"documentary": 99,
	"drama":       18,
	"family":      10751,
	"kids":        10762,
	"mystery":     9648,
	"news":        10763,
	"reality":     10764,
	"sci-fi":      10765,
	"soap":        10766,
	"talk":        10767,
	"war":         10768,
	"western":     37,
}

// Lookup finds a catalog by id and type.
func Lookup(id string, kind models.MediaKind) (Definition, bool) {
	for _, def := range definitions {
		if def.ID == id && def.Kind == kind {
			return def, true
		}
	}
	return Definition{}, false
}

// PageForSkip converts an item offset to a 1-based provider page.
func PageForSkip(skip int) int {
	if skip < 0 {
		skip = 0
	}
	return skip/PageSize + 1
}

// GenreID maps a genre name to the provider genre id for kind.
func GenreID(kind models.MediaKind, name string) (int, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return 0, false
	}
	table := movieGenres
	if kind == models.MediaKindSeries {
		table = seriesGenres
	}
	id, ok := table[name]
	return id, ok
}

// GenreNames lists the filterable genres for kind, sorted.
func GenreNames(kind models.MediaKind) []string {
	table := movieGenres
	if kind == models.MediaKindSeries {
		table = seriesGenres
	}
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ManifestCatalogs describes the catalogs with their extra filters.
func ManifestCatalogs() []models.ManifestCatalog {
	out := make([]models.ManifestCatalog, 0, len(definitions))
	for _, def := range definitions {
		out = append(out, models.ManifestCatalog{
			Type: def.Kind,
			ID:   def.ID,
			Name: def.Name,
			Extra: []models.CatalogExtra{
				{Name: "genre", Options: GenreNames(def.Kind)},
				{Name: "skip"},
			},
		})
	}
	return out
}
