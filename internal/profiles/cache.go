package profiles

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/louisbranch/savegraft/internal/players"
	"github.com/louisbranch/savegraft/internal/profiles/storage"
)

// CachedResolver answers from Store while entries are younger than TTL and
// asks Next otherwise, remembering successful answers. Store failures are
// logged and never fail a lookup.
type CachedResolver struct {
	Next  players.NameResolver
	Store storage.NameStore
	// TTL is how long a cached name is served. Zero or less never expires.
	TTL    time.Duration
	Now    func() time.Time
	Logger *log.Logger
}

// LookupName implements players.NameResolver.
func (r *CachedResolver) LookupName(ctx context.Context, id string) (string, error) {
	key := NormalizeID(id)
	now := r.now()

	cached, err := r.Store.GetName(ctx, key)
	switch {
	case err == nil:
		if r.TTL <= 0 || now.Sub(cached.FetchedAt) < r.TTL {
			return cached.Name, nil
		}
	case errors.Is(err, storage.ErrNotFound):
	default:
		r.logger().Printf("name cache read for %s: %v", key, err)
	}

	name, err := r.Next.LookupName(ctx, id)
	if err != nil {
		return "", err
	}
	if err := r.Store.PutName(ctx, storage.CachedName{PlayerID: key, Name: name, FetchedAt: now}); err != nil {
		r.logger().Printf("name cache write for %s: %v", key, err)
	}
	return name, nil
}

func (r *CachedResolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

func (r *CachedResolver) logger() *log.Logger {
	if r.Logger == nil {
		return log.Default()
	}
	return r.Logger
}

var _ players.NameResolver = (*CachedResolver)(nil)
var _ players.NameResolver = (*HTTPClient)(nil)
