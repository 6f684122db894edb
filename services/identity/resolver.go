package identity

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"minnal/models"
	"minnal/services/metadata"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"golang.org/x/sync/singleflight"
)

// Lookup is the provider capability the resolver needs.
type Lookup interface {
	FindByExternalID(ctx context.Context, externalID string, kind models.MediaKind) (int64, error)
	ExternalID(ctx context.Context, kind models.MediaKind, tmdbID int64) (string, error)
}

// Resolver maps foreign ids to tmdb ids and back. Successful lookups are
// cached; failures are not.
type Resolver struct {
	lookup  Lookup
	forward *expirable.LRU[string, int64]
	reverse *expirable.LRU[string, string]
	group   singleflight.Group
	// lookupTimeout bounds a shared lookup, which outlives any one caller.
	lookupTimeout time.Duration
}

func NewResolver(lookup Lookup, cacheSize int, ttl time.Duration) *Resolver {
	if cacheSize <= 0 {
		cacheSize = 4096
	}
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Resolver{
		lookup:  lookup,
		forward: expirable.NewLRU[string, int64](cacheSize, nil, ttl),
		reverse: expirable.NewLRU[string, string](cacheSize, nil, ttl),

		lookupTimeout: 30 * time.Second,
	}
}

// Resolve returns the tmdb id for id. Local and synthesized ids need no I/O.
func (r *Resolver) Resolve(ctx context.Context, id ContentIdentity, kind models.MediaKind) (int64, error) {
	if id.Resolved() {
		return id.ProviderID, nil
	}
	if id.Namespace != NamespaceForeign || id.RawID == "" {
		return 0, fmt.Errorf("%w: %q", ErrInvalidID, id.RawID)
	}

	key := string(kind) + ":" + id.RawID
	if tmdbID, ok := r.forward.Get(key); ok {
		return tmdbID, nil
	}

	v, err := r.shared(ctx, "find:"+key, func(lookupCtx context.Context) (any, error) {
		return r.lookup.FindByExternalID(lookupCtx, id.RawID, kind)
	})
	if err != nil {
		if errors.Is(err, metadata.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s %s: %w", ErrResolution, kind, id.RawID, err)
		}
		return 0, fmt.Errorf("resolve %s %s: %w", kind, id.RawID, err)
	}
	tmdbID := v.(int64)
	if tmdbID <= 0 {
		return 0, fmt.Errorf("%w: %s %s: no results", ErrResolution, kind, id.RawID)
	}
	r.forward.Add(key, tmdbID)
	return tmdbID, nil
}

// ResolveRaw parses and resolves a raw addon id.
func (r *Resolver) ResolveRaw(ctx context.Context, raw string, kind models.MediaKind) (ContentIdentity, error) {
	id, err := Parse(raw)
	if err != nil {
		return ContentIdentity{}, err
	}
	tmdbID, err := r.Resolve(ctx, id, kind)
	if err != nil {
		return id, err
	}
	id.ProviderID = tmdbID
	return id, nil
}

// ForeignID returns the IMDb id for a tmdb record, or FallbackID when the
// reverse lookup fails.
func (r *Resolver) ForeignID(ctx context.Context, kind models.MediaKind, tmdbID int64) string {
	key := string(kind) + ":" + strconv.FormatInt(tmdbID, 10)
	if imdbID, ok := r.reverse.Get(key); ok {
		return imdbID
	}

	v, err := r.shared(ctx, "external:"+key, func(lookupCtx context.Context) (any, error) {
		return r.lookup.ExternalID(lookupCtx, kind, tmdbID)
	})
	if err != nil {
		if !errors.Is(err, metadata.ErrNotFound) {
			log.Printf("[identity] reverse lookup failed kind=%s tmdbId=%d err=%v", kind, tmdbID, err)
		}
		return FallbackID(tmdbID)
	}
	imdbID := v.(string)
	if imdbID == "" {
		return FallbackID(tmdbID)
	}
	r.forward.Add(string(kind)+":"+imdbID, tmdbID)
	r.reverse.Add(key, imdbID)
	return imdbID
}

// shared runs fn once per key for all concurrent callers. fn runs on a
// context detached from the callers; each caller stops waiting when its own
// ctx is done.
func (r *Resolver) shared(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := r.group.DoChan(key, func() (any, error) {
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.lookupTimeout)
		defer cancel()
		return fn(lookupCtx)
	})
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
