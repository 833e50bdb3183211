package ownership

import (
	"context"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	platformotel "github.com/louisbranch/savegraft/internal/platform/otel"
	"github.com/louisbranch/savegraft/internal/savefile"
)

const tracerName = "github.com/louisbranch/savegraft/internal/ownership"

// Result describes a completed graft.
type Result struct {
	LevelPath  string
	PlayerPath string
	// BackupPath is empty when no backup was taken.
	BackupPath string
}

// Service grafts player documents into level documents on disk.
type Service struct {
	// SkipValidation grafts sources that do not look like player documents.
	SkipValidation bool
	// NoBackup skips copying the level document before it is replaced.
	NoBackup bool
	Logger   *log.Logger
}

// GraftFiles loads both documents, grafts the player into the level and
// saves the level in place. On failure the level file is left untouched.
func (s *Service) GraftFiles(ctx context.Context, levelPath, playerPath string) (res Result, err error) {
	ctx, span := platformotel.Tracer(tracerName).Start(ctx, "ownership.GraftFiles", trace.WithAttributes(
		attribute.String("savegraft.level_path", levelPath),
		attribute.String("savegraft.player_path", playerPath),
	))
	defer func() { platformotel.EndSpan(span, err) }()

	res = Result{LevelPath: levelPath, PlayerPath: playerPath}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	level, err := savefile.Load(levelPath)
	if err != nil {
		return res, err
	}
	player, err := savefile.Load(playerPath)
	if err != nil {
		return res, err
	}
	if !s.SkipValidation {
		if err := ValidatePlayer(player); err != nil {
			return res, withMetadata(err, "validate "+playerPath, map[string]string{"Path": playerPath})
		}
	}
	if _, err := Graft(level, player); err != nil {
		return res, withMetadata(err, "graft into "+levelPath, map[string]string{"File": levelPath})
	}

	if err := ctx.Err(); err != nil {
		return res, err
	}
	if !s.NoBackup {
		backupPath, err := savefile.Backup(levelPath)
		if err != nil {
			return res, err
		}
		res.BackupPath = backupPath
		span.SetAttributes(attribute.String("savegraft.backup_path", backupPath))
	}
	if err := savefile.Save(levelPath, level); err != nil {
		return res, err
	}
	s.logger().Printf("grafted %s into %s", playerPath, levelPath)
	return res, nil
}

// withMetadata wraps a domain error, adding extra to its metadata.
func withMetadata(err error, message string, extra map[string]string) error {
	domainErr, ok := apperrors.As(err)
	if !ok {
		return err
	}
	meta := make(map[string]string, len(domainErr.Metadata)+len(extra))
	for k, v := range domainErr.Metadata {
		meta[k] = v
	}
	for k, v := range extra {
		meta[k] = v
	}
	return apperrors.WrapWithMetadata(domainErr.Code, message, meta, err)
}

func (s *Service) logger() *log.Logger {
	if s == nil || s.Logger == nil {
		return log.Default()
	}
	return s.Logger
}
