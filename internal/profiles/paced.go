package profiles

import (
	"context"
	"time"

	"github.com/louisbranch/savegraft/internal/players"
)

// PacedResolver waits Pacing before every call to Next so a long player list
// does not burst the profile service. Put it directly around the network
// client; answers served from a cache in front of it do not wait.
type PacedResolver struct {
	Next   players.NameResolver
	Pacing time.Duration
}

// LookupName implements players.NameResolver.
func (r *PacedResolver) LookupName(ctx context.Context, id string) (string, error) {
	if err := pause(ctx, r.Pacing); err != nil {
		return "", err
	}
	return r.Next.LookupName(ctx, id)
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var _ players.NameResolver = (*PacedResolver)(nil)
