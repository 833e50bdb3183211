// Package install locates a game installation and the worlds saved in it.
package install

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	"github.com/louisbranch/savegraft/internal/resolve"
)

// World is one saved world.
type World struct {
	Name      string
	Dir       string
	LevelPath string
}

// DefaultRoot returns the conventional installation directory for goos under
// home, or "" when the platform has no convention.
func DefaultRoot(goos, home string) string {
	if home == "" {
		return ""
	}
	switch goos {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", ".minecraft")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "minecraft")
	case "linux":
		return filepath.Join(home, ".minecraft")
	default:
		return ""
	}
}

// ListWorlds returns the directories under root/saves that hold a level
// document, sorted by name.
func ListWorlds(root string) ([]World, error) {
	savesDir := filepath.Join(root, resolve.SavesDir)
	entries, err := os.ReadDir(savesDir)
	if err != nil {
		code := apperrors.CodeIO
		if errors.Is(err, fs.ErrNotExist) {
			code = apperrors.CodeNotFound
		}
		return nil, apperrors.WrapWithMetadata(code, "read "+savesDir, map[string]string{"Path": savesDir}, err)
	}

	var worlds []World
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		dir := filepath.Join(savesDir, entry.Name())
		level := filepath.Join(dir, resolve.LevelFile)
		if info, err := os.Stat(level); err != nil || info.IsDir() {
			continue
		}
		worlds = append(worlds, World{Name: entry.Name(), Dir: dir, LevelPath: level})
	}
	sort.Slice(worlds, func(i, j int) bool { return worlds[i].Name < worlds[j].Name })
	return worlds, nil
}
