package players

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	platformotel "github.com/louisbranch/savegraft/internal/platform/otel"
)

// lookupAll resolves one name per summary. names[i] belongs to summaries[i];
// tasks write only their own slot, so completion order does not matter.
func (d *Directory) lookupAll(ctx context.Context, summaries []Summary) []string {
	names := make([]string, len(summaries))

	var g errgroup.Group
	if d.Limit > 0 {
		g.SetLimit(d.Limit)
	}
	for i := range summaries {
		id := summaries[i].ID
		g.Go(func() error {
			names[i] = d.lookupName(ctx, id)
			return nil
		})
	}
	_ = g.Wait()
	return names
}

type lookupResult struct {
	name string
	err  error
}

// lookupName never fails; any problem is logged and yields "".
func (d *Directory) lookupName(ctx context.Context, id string) string {
	ctx, span := platformotel.Tracer(tracerName).Start(ctx, "players.LookupName", trace.WithAttributes(
		attribute.String("savegraft.player_id", id),
	))

	name, err := d.resolve(ctx, id)
	platformotel.EndSpan(span, err)
	if err != nil {
		d.logger().Printf("name lookup for %s: %v", id, err)
		return ""
	}
	return name
}

func (d *Directory) resolve(ctx context.Context, id string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if d.LookupTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, d.LookupTimeout)
		defer cancel()
	}

	// The resolver runs apart so one that ignores ctx cannot stall the listing.
	done := make(chan lookupResult, 1)
	go func() {
		name, err := d.Names.LookupName(ctx, id)
		done <- lookupResult{name: name, err: err}
	}()
	select {
	case res := <-done:
		if res.err == nil && res.name == "" {
			return "", fmt.Errorf("empty name")
		}
		return res.name, res.err
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

func (d *Directory) logger() *log.Logger {
	if d.Logger == nil {
		return log.Default()
	}
	return d.Logger
}
