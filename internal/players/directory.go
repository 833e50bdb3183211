// Package players lists the per-player documents of a world and enriches
// them with display names from an external resolver.
package players

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/louisbranch/savegraft/internal/nbt"
	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	platformotel "github.com/louisbranch/savegraft/internal/platform/otel"
	"github.com/louisbranch/savegraft/internal/resolve"
	"github.com/louisbranch/savegraft/internal/savefile"
)

const tracerName = "github.com/louisbranch/savegraft/internal/players"

// Summary is what the listing reports about one player.
type Summary struct {
	// ID is the document file name without its extension.
	ID string
	// Name is the display name, or empty when none was found.
	Name    string
	XPLevel int32
	Pos     [3]float64
	Path    string
}

// HasName reports whether a display name was found.
func (s Summary) HasName() bool {
	return s.Name != ""
}

// Directory lists players. The zero value lists without name enrichment.
type Directory struct {
	// Load reads one player document. Nil uses savefile.Load.
	Load func(path string) (*nbt.Document, error)
	// Names resolves display names. Nil skips enrichment.
	Names NameResolver
	// Limit bounds concurrent lookups. Zero or less starts one lookup per
	// player at once.
	Limit int
	// LookupTimeout bounds one call to Names. Zero means no bound beyond ctx.
	LookupTimeout time.Duration
	Logger        *log.Logger
}

// List reads every player document under worldPath/playerdata in file name
// order, then looks up display names concurrently. The result keeps the file
// order whatever order the lookups finish in. A document that cannot be read
// fails the listing; a failed lookup only leaves that player's name empty.
func (d *Directory) List(ctx context.Context, worldPath string) (out []Summary, err error) {
	ctx, span := platformotel.Tracer(tracerName).Start(ctx, "players.List", trace.WithAttributes(
		attribute.String("savegraft.world_path", worldPath),
	))
	defer func() { platformotel.EndSpan(span, err) }()

	paths, err := playerFiles(filepath.Join(worldPath, resolve.PlayerDataDir))
	if err != nil {
		return nil, err
	}

	out = make([]Summary, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		summary, err := d.summarize(path)
		if err != nil {
			return nil, err
		}
		out = append(out, summary)
	}
	span.SetAttributes(attribute.Int("savegraft.players", len(out)))

	if d.Names == nil || len(out) == 0 {
		return out, nil
	}
	names := d.lookupAll(ctx, out)
	for i := range out {
		out[i].Name = names[i]
	}
	return out, nil
}

func playerFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		code := apperrors.CodeIO
		if errors.Is(err, fs.ErrNotExist) {
			code = apperrors.CodeNotFound
		}
		return nil, apperrors.WrapWithMetadata(code, "read "+dir, map[string]string{"Path": dir}, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != resolve.DocumentExt {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func (d *Directory) summarize(path string) (Summary, error) {
	load := d.Load
	if load == nil {
		load = savefile.Load
	}
	doc, err := load(path)
	if err != nil {
		return Summary{}, err
	}

	base := filepath.Base(path)
	s := Summary{ID: strings.TrimSuffix(base, filepath.Ext(base)), Path: path}

	xp, err := doc.Lookup(nbt.Key("XpLevel"))
	if err != nil {
		return Summary{}, withFile(err, path)
	}
	if !fitsInt32(xp.Kind()) {
		return Summary{}, invalidField(path, "XpLevel", fmt.Sprintf("XpLevel is %s", xp.Kind()))
	}
	s.XPLevel = int32(xp.Int())

	for i := range s.Pos {
		coord, err := doc.Lookup(nbt.Key("Pos"), nbt.At(i))
		if err != nil {
			return Summary{}, withFile(err, path)
		}
		if k := coord.Kind(); k != nbt.KindDouble && k != nbt.KindFloat {
			return Summary{}, invalidField(path, "Pos", fmt.Sprintf("Pos[%d] is %s", i, k))
		}
		s.Pos[i] = coord.Float()
	}
	return s, nil
}

// fitsInt32 reports whether every value of kind k converts to int32 exactly.
func fitsInt32(k nbt.Kind) bool {
	switch k {
	case nbt.KindByte, nbt.KindShort, nbt.KindInt:
		return true
	}
	return false
}

func invalidField(path, field, message string) error {
	return apperrors.WithMetadata(apperrors.CodeInvalidPlayer, message, map[string]string{"Path": path, "Field": field})
}

// withFile names the document a lookup failure happened in.
func withFile(err error, path string) error {
	domainErr, ok := apperrors.As(err)
	if !ok {
		return err
	}
	meta := map[string]string{"File": path}
	for k, v := range domainErr.Metadata {
		meta[k] = v
	}
	return apperrors.WrapWithMetadata(domainErr.Code, "read "+path, meta, err)
}
