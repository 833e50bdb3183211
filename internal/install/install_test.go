package install

import (
	"os"
	"path/filepath"
	"testing"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
)

func TestDefaultRoot(t *testing.T) {
	t.Parallel()

	home := filepath.FromSlash("/home/alex")
	tests := []struct {
		goos string
		want string
	}{
		{goos: "windows", want: filepath.Join(home, "AppData", "Roaming", ".minecraft")},
		{goos: "darwin", want: filepath.Join(home, "Library", "Application Support", "minecraft")},
		{goos: "linux", want: filepath.Join(home, ".minecraft")},
		{goos: "plan9", want: ""},
	}
	for _, tt := range tests {
		if got := DefaultRoot(tt.goos, home); got != tt.want {
			t.Fatalf("DefaultRoot(%q) = %q, want %q", tt.goos, got, tt.want)
		}
	}
	if got := DefaultRoot("linux", ""); got != "" {
		t.Fatalf("DefaultRoot without home = %q, want empty", got)
	}
}

func TestListWorlds(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	saves := filepath.Join(root, "saves")
	for _, name := range []string{"Zeta", "Alpha", "Broken"} {
		if err := os.MkdirAll(filepath.Join(saves, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	for _, name := range []string{"Zeta", "Alpha"} {
		if err := os.WriteFile(filepath.Join(saves, name, "level.dat"), []byte("x"), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(saves, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	worlds, err := ListWorlds(root)
	if err != nil {
		t.Fatalf("list worlds: %v", err)
	}
	if len(worlds) != 2 || worlds[0].Name != "Alpha" || worlds[1].Name != "Zeta" {
		t.Fatalf("worlds = %+v, want [Alpha Zeta]", worlds)
	}
	if worlds[0].LevelPath != filepath.Join(saves, "Alpha", "level.dat") {
		t.Fatalf("level path = %q", worlds[0].LevelPath)
	}
}

func TestListWorldsMissingSaves(t *testing.T) {
	t.Parallel()

	_, err := ListWorlds(t.TempDir())
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}
