package streams

import (
	"minnal/models"
	"minnal/services/identity"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Variant is one rung of the fixed quality ladder.
type Variant struct {
	Resolution string
	Label      string
	Size       string
}

var ladder = []Variant{
	{Resolution: models.Quality2160p, Label: "4K", Size: "4-8 GB"},
	{Resolution: models.Quality1080p, Label: "FHD", Size: "2-4 GB"},
	{Resolution: models.Quality720p, Label: "HD", Size: "1-2 GB"},
	{Resolution: models.Quality480p, Label: "SD", Size: "600-800 MB"},
}

type subtitleSet struct {
	Languages []string
	Default   string
}

var subtitleSets = map[identity.Namespace]subtitleSet{
	identity.NamespaceLocal:   {Languages: []string{"en", "ml", "es", "fr", "de"}, Default: "ml"},
	identity.NamespaceForeign: {Languages: []string{"en", "es", "fr", "de", "ml"}, Default: "en"},
}

// regionCode is the path segment used in stream urls and binge groups.
func regionCode(ns identity.Namespace) string {
	if ns == identity.NamespaceLocal {
		return "ml"
	}
	return "en"
}

// languageLabel returns the English name of an ISO 639-1 code.
func languageLabel(code string) string {
	tag, err := language.Parse(code)
	if err != nil {
		return code
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return code
}
