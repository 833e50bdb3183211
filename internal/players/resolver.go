package players

import "context"

// NameResolver looks up the display name of a player identifier. A failed
// lookup is reported as an error; callers treat any error as "no name".
type NameResolver interface {
	LookupName(ctx context.Context, id string) (string, error)
}

// NameResolverFunc adapts a function to NameResolver.
type NameResolverFunc func(ctx context.Context, id string) (string, error)

// LookupName calls f.
func (f NameResolverFunc) LookupName(ctx context.Context, id string) (string, error) {
	return f(ctx, id)
}
