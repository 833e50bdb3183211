// Package resolve turns the loosely typed player and world arguments of the
// command surface into the two files a graft reads and writes.
package resolve

import (
	"fmt"
	"path/filepath"
	"strings"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	"github.com/louisbranch/savegraft/internal/savefile"
)

const (
	// DocumentExt is the extension of level and player documents.
	DocumentExt = ".dat"
	// LevelFile is the level document inside a world directory.
	LevelFile = "level.dat"
	// SavesDir holds the worlds of an installation.
	SavesDir = "saves"
	// PlayerDataDir holds the per-player documents of a world.
	PlayerDataDir = "playerdata"
)

// Form classifies a raw argument by its extension.
type Form int

const (
	// FormEmpty is an absent argument.
	FormEmpty Form = iota
	// FormDocument names a .dat file.
	FormDocument
	// FormDir has no extension: a world name under the saves directory, or a
	// world directory path.
	FormDir
	// FormOther carries an extension other than .dat.
	FormOther
)

func (f Form) String() string {
	switch f {
	case FormEmpty:
		return "empty"
	case FormDocument:
		return "document"
	case FormDir:
		return "dir"
	default:
		return "other"
	}
}

// Classify reports the form of a raw argument.
func Classify(arg string) Form {
	if arg == "" {
		return FormEmpty
	}
	switch filepath.Ext(arg) {
	case DocumentExt:
		return FormDocument
	case "":
		return FormDir
	default:
		return FormOther
	}
}

// Input is the raw user input for a graft.
type Input struct {
	// UUIDArg is a player identifier or a path to a player document.
	UUIDArg string
	// WorldArg is a world name, a world directory or a path to a level document.
	WorldArg string
	// BaseDir is the installation root that contains SavesDir.
	BaseDir string
}

// Paths are the resolved graft locations.
type Paths struct {
	LevelPath  string
	PlayerPath string
}

// Resolve maps in to concrete paths and checks that both exist, the level
// document first.
func Resolve(in Input) (Paths, error) {
	paths, err := Locate(in)
	if err != nil {
		return Paths{}, err
	}
	for _, p := range []string{paths.LevelPath, paths.PlayerPath} {
		if !savefile.Exists(p) {
			return Paths{}, apperrors.WithMetadata(
				apperrors.CodeNotFound,
				fmt.Sprintf("%s does not exist", p),
				map[string]string{"Path": p},
			)
		}
	}
	return paths, nil
}

// Locate applies the resolution rules without touching the filesystem.
//
//	player .dat, world .dat   -> level = world, player = uuid
//	player .dat, world dir    -> level = WorldDir(base, world)/level.dat
//	player .dat, world other  -> BAD_WORLD_FORMAT
//	player .dat, no world     -> level = two directories above the player, then level.dat
//	player id,   no world     -> MISSING_WORLD
//	player id,   world given  -> WorldDir(base, world)/{level.dat, playerdata/<id>.dat}
func Locate(in Input) (Paths, error) {
	if in.UUIDArg == "" {
		return Paths{}, apperrors.New(apperrors.CodeMissingPlayer, "player identifier is required")
	}

	if Classify(in.UUIDArg) == FormDocument {
		playerPath := in.UUIDArg
		switch Classify(in.WorldArg) {
		case FormDocument:
			return Paths{LevelPath: in.WorldArg, PlayerPath: playerPath}, nil
		case FormDir:
			return Paths{LevelPath: WorldDir(in.BaseDir, in.WorldArg, LevelFile), PlayerPath: playerPath}, nil
		case FormEmpty:
			worldDir := filepath.Dir(filepath.Dir(playerPath))
			return Paths{LevelPath: filepath.Join(worldDir, LevelFile), PlayerPath: playerPath}, nil
		default:
			return Paths{}, badWorldFormat(in.WorldArg)
		}
	}

	if in.WorldArg == "" {
		return Paths{}, apperrors.New(apperrors.CodeMissingWorld, "world is required when the player is an identifier")
	}
	id := strings.TrimSuffix(in.UUIDArg, filepath.Ext(in.UUIDArg))
	return Paths{
		LevelPath:  WorldDir(in.BaseDir, in.WorldArg, LevelFile),
		PlayerPath: WorldDir(in.BaseDir, in.WorldArg, PlayerDataDir, id+DocumentExt),
	}, nil
}

// WorldDir joins elem onto the directory of world. A relative world is
// taken under base/saves; an absolute one is the world directory itself.
func WorldDir(baseDir, world string, elem ...string) string {
	if filepath.IsAbs(world) {
		return filepath.Join(append([]string{world}, elem...)...)
	}
	return filepath.Join(append([]string{baseDir, SavesDir, world}, elem...)...)
}

// WorldPath returns the world directory named by worldArg: a world name or
// directory, or the path of the world's level document.
func WorldPath(baseDir, worldArg string) (string, error) {
	switch Classify(worldArg) {
	case FormEmpty:
		return "", apperrors.New(apperrors.CodeMissingWorld, "world is required")
	case FormDir:
		return WorldDir(baseDir, worldArg), nil
	case FormDocument:
		return filepath.Dir(worldArg), nil
	default:
		return "", badWorldFormat(worldArg)
	}
}

func badWorldFormat(worldArg string) error {
	return apperrors.WithMetadata(
		apperrors.CodeBadWorldFormat,
		fmt.Sprintf("world must be a directory or a %s file, got %q", DocumentExt, worldArg),
		map[string]string{"World": worldArg},
	)
}
