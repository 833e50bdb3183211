package savegraft

import (
	"context"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/savegraft/internal/install"
	"github.com/louisbranch/savegraft/internal/ownership"
	platformotel "github.com/louisbranch/savegraft/internal/platform/otel"
	"github.com/louisbranch/savegraft/internal/players"
	"github.com/louisbranch/savegraft/internal/profiles"
	profilesqlite "github.com/louisbranch/savegraft/internal/profiles/storage/sqlite"
	"github.com/louisbranch/savegraft/internal/resolve"
)

const tracerName = "github.com/louisbranch/savegraft/internal/tools/savegraft"

// Core is what every front end drives. Front ends never reach past it.
type Core interface {
	GraftIdentity(ctx context.Context, uuidArg, worldArg string) (ownership.Result, error)
	ListWorlds(ctx context.Context) ([]install.World, error)
	ListPlayers(ctx context.Context, worldArg string) ([]players.Summary, error)
	// Root is the installation directory the core works in.
	Root() string
}

// Service implements Core over one installation root.
type Service struct {
	root    string
	graft   *ownership.Service
	players *players.Directory
}

// NewService wires a Service from cfg. The returned close function releases
// the name cache, if one was opened.
func NewService(ctx context.Context, cfg Config, logger *log.Logger) (*Service, func() error, error) {
	if logger == nil {
		logger = log.Default()
	}
	closeFn := func() error { return nil }

	var names players.NameResolver
	if cfg.ProfileURL != "" {
		names = &profiles.PacedResolver{
			Next:   profiles.NewHTTPClient(cfg.ProfileURL, cfg.LookupTimeout),
			Pacing: cfg.LookupPacing,
		}
		if cfg.NameCache != "" {
			store, err := profilesqlite.Open(ctx, cfg.NameCache)
			if err != nil {
				return nil, closeFn, fmt.Errorf("open name cache: %w", err)
			}
			closeFn = store.Close
			names = &profiles.CachedResolver{Next: names, Store: store, TTL: cfg.NameCacheTTL, Logger: logger}
		}
	}

	// The per-lookup bound covers the pause taken before a network request.
	lookupTimeout := cfg.LookupTimeout
	if lookupTimeout > 0 && cfg.LookupPacing > 0 {
		lookupTimeout += cfg.LookupPacing
	}

	return &Service{
		root: cfg.Root,
		graft: &ownership.Service{
			SkipValidation: cfg.SkipValidation,
			NoBackup:       cfg.NoBackup,
			Logger:         logger,
		},
		players: &players.Directory{
			Names:         names,
			Limit:         cfg.LookupLimit,
			LookupTimeout: lookupTimeout,
			Logger:        logger,
		},
	}, closeFn, nil
}

// Root implements Core.
func (s *Service) Root() string {
	return s.root
}

// GraftIdentity resolves the arguments and makes the player own the world.
func (s *Service) GraftIdentity(ctx context.Context, uuidArg, worldArg string) (ownership.Result, error) {
	paths, err := resolve.Resolve(resolve.Input{UUIDArg: uuidArg, WorldArg: worldArg, BaseDir: s.root})
	if err != nil {
		return ownership.Result{}, err
	}
	return s.graft.GraftFiles(ctx, paths.LevelPath, paths.PlayerPath)
}

// ListWorlds lists the worlds of the installation.
func (s *Service) ListWorlds(ctx context.Context) (worlds []install.World, err error) {
	_, span := platformotel.Tracer(tracerName).Start(ctx, "savegraft.ListWorlds", trace.WithAttributes(
		attribute.String("savegraft.root", s.root),
	))
	defer func() { platformotel.EndSpan(span, err) }()
	return install.ListWorlds(s.root)
}

// ListPlayers lists the players of a world given by name, by directory, or
// by the path of its level document, the same world a graft would use.
func (s *Service) ListPlayers(ctx context.Context, worldArg string) ([]players.Summary, error) {
	worldPath, err := resolve.WorldPath(s.root, worldArg)
	if err != nil {
		return nil, err
	}
	return s.players.List(ctx, worldPath)
}

var _ Core = (*Service)(nil)
