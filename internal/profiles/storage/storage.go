// Package storage defines persistence contracts for cached profile names.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound indicates no name is cached for a player.
var ErrNotFound = errors.New("record not found")

// CachedName is one remembered display name.
type CachedName struct {
	PlayerID  string
	Name      string
	FetchedAt time.Time
}

// NameStore persists display names keyed by player identifier.
type NameStore interface {
	GetName(ctx context.Context, playerID string) (CachedName, error)
	PutName(ctx context.Context, name CachedName) error
}
