// Package identity translates between addon ids and tmdb ids.
//
// Local ids ("ml603") wrap a tmdb id directly. Foreign ids are IMDb ids
// ("tt0133093") and need a provider lookup. Catalog rows whose IMDb id cannot
// be found use a synthesized foreign id ("tmdb603") that resolves back without I/O.
package identity

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

type Namespace string

const (
	NamespaceLocal   Namespace = "local"
	NamespaceForeign Namespace = "foreign"
)

const (
	LocalPrefix    = "ml"
	ForeignPrefix  = "tt"
	FallbackPrefix = "tmdb"
)

var (
	// ErrResolution means an id could not be mapped to a tmdb id.
	ErrResolution = errors.New("content id could not be resolved")
	ErrInvalidID  = fmt.Errorf("%w: invalid content id", ErrResolution)
)

// ContentIdentity is a parsed addon id. ProviderID is zero until resolved.
type ContentIdentity struct {
	Namespace  Namespace
	RawID      string
	ProviderID int64
}

func (id ContentIdentity) Resolved() bool {
	return id.ProviderID > 0
}

// Parse classifies a raw addon id. It performs no I/O.
func Parse(raw string) (ContentIdentity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ContentIdentity{}, fmt.Errorf("%w: empty", ErrInvalidID)
	}

	lower := strings.ToLower(raw)
	switch {
	case strings.HasPrefix(lower, FallbackPrefix):
		if n, ok := parseNumeric(raw[len(FallbackPrefix):]); ok {
			return ContentIdentity{Namespace: NamespaceForeign, RawID: raw, ProviderID: n}, nil
		}
	case strings.HasPrefix(lower, LocalPrefix):
		n, ok := parseNumeric(raw[len(LocalPrefix):])
		if !ok {
			return ContentIdentity{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
		}
		return ContentIdentity{Namespace: NamespaceLocal, RawID: raw, ProviderID: n}, nil
	}

	if !isForeignShape(raw) {
		return ContentIdentity{}, fmt.Errorf("%w: %q", ErrInvalidID, raw)
	}
	return ContentIdentity{Namespace: NamespaceForeign, RawID: raw}, nil
}

// LocalID formats a tmdb id in the local namespace.
func LocalID(tmdbID int64) string {
	return LocalPrefix + strconv.FormatInt(tmdbID, 10)
}

// FallbackID is the deterministic foreign id used when no IMDb id exists.
func FallbackID(tmdbID int64) string {
	return FallbackPrefix + strconv.FormatInt(tmdbID, 10)
}

func parseNumeric(s string) (int64, bool) {
	if s == "" {
		return 0, false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}

// isForeignShape reports a letter-prefixed alphanumeric id.
func isForeignShape(s string) bool {
	first := s[0]
	if !(first >= 'a' && first <= 'z') && !(first >= 'A' && first <= 'Z') {
		return false
	}
	hasDigit := false
	for _, r := range s {
		switch {
		case r >= '0' && r <= '9':
			hasDigit = true
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		default:
			return false
		}
	}
	return hasDigit
}
