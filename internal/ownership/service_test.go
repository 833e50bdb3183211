package ownership

import (
	"bytes"
	"context"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/louisbranch/savegraft/internal/nbt"
	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	"github.com/louisbranch/savegraft/internal/savefile"
)

func writeWorld(t *testing.T, player *nbt.Document) (levelPath, playerPath string) {
	t.Helper()
	world := filepath.Join(t.TempDir(), "W")
	if err := os.MkdirAll(filepath.Join(world, "playerdata"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	levelPath = filepath.Join(world, "level.dat")
	playerPath = filepath.Join(world, "playerdata", "NEW.dat")
	if err := savefile.Save(levelPath, levelDoc()); err != nil {
		t.Fatalf("save level: %v", err)
	}
	if err := savefile.Save(playerPath, player); err != nil {
		t.Fatalf("save player: %v", err)
	}
	return levelPath, playerPath
}

func quietService() *Service {
	return &Service{Logger: log.New(io.Discard, "", 0)}
}

func TestGraftFilesEndToEnd(t *testing.T) {
	t.Parallel()

	levelPath, playerPath := writeWorld(t, playerDoc("new"))
	before, _ := os.ReadFile(levelPath)

	res, err := quietService().GraftFiles(context.Background(), levelPath, playerPath)
	if err != nil {
		t.Fatalf("graft files: %v", err)
	}
	if res.BackupPath != levelPath+savefile.BackupSuffix {
		t.Fatalf("backup path = %q", res.BackupPath)
	}
	backup, _ := os.ReadFile(res.BackupPath)
	if !bytes.Equal(backup, before) {
		t.Fatal("backup does not hold the pre-graft level")
	}

	level, err := savefile.Load(levelPath)
	if err != nil {
		t.Fatalf("reload level: %v", err)
	}
	id, err := level.Lookup(nbt.Key("Data"), nbt.Key("Player"), nbt.Key("id"))
	if err != nil {
		t.Fatalf("lookup id: %v", err)
	}
	if id.Str() != "new" {
		t.Fatalf("Data.Player.id = %q, want new", id.Str())
	}

	want := levelDoc()
	wantData, _ := want.Lookup(nbt.Key("Data"))
	gotData, _ := level.Lookup(nbt.Key("Data"))
	for _, e := range wantData.Entries() {
		if e.Name == "Player" {
			continue
		}
		got, ok := gotData.Get(e.Name)
		if !ok || !nbt.Equal(got, e.Value) {
			t.Fatalf("Data.%s changed by graft", e.Name)
		}
	}
}

func TestGraftFilesNoBackup(t *testing.T) {
	t.Parallel()

	levelPath, playerPath := writeWorld(t, playerDoc("new"))
	svc := quietService()
	svc.NoBackup = true
	res, err := svc.GraftFiles(context.Background(), levelPath, playerPath)
	if err != nil {
		t.Fatalf("graft files: %v", err)
	}
	if res.BackupPath != "" {
		t.Fatalf("backup path = %q, want empty", res.BackupPath)
	}
	if savefile.Exists(levelPath + savefile.BackupSuffix) {
		t.Fatal("unexpected backup file")
	}
}

func TestGraftFilesValidationLeavesLevelUntouched(t *testing.T) {
	t.Parallel()

	bad := &nbt.Document{Root: nbt.Compound(nbt.Field("id", nbt.String("new")))}
	levelPath, playerPath := writeWorld(t, bad)
	before, _ := os.ReadFile(levelPath)

	_, err := quietService().GraftFiles(context.Background(), levelPath, playerPath)
	if !apperrors.IsCode(err, apperrors.CodeInvalidPlayer) {
		t.Fatalf("expected INVALID_PLAYER, got %v", err)
	}
	after, _ := os.ReadFile(levelPath)
	if !bytes.Equal(before, after) {
		t.Fatal("level modified by failed graft")
	}

	svc := quietService()
	svc.SkipValidation = true
	if _, err := svc.GraftFiles(context.Background(), levelPath, playerPath); err != nil {
		t.Fatalf("graft with validation skipped: %v", err)
	}
}

func TestGraftFilesMissingInputs(t *testing.T) {
	t.Parallel()

	levelPath, playerPath := writeWorld(t, playerDoc("new"))
	if _, err := quietService().GraftFiles(context.Background(), levelPath+".missing", playerPath); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for level, got %v", err)
	}
	if _, err := quietService().GraftFiles(context.Background(), levelPath, playerPath+".missing"); !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND for player, got %v", err)
	}
}

func TestGraftFilesCanceledContext(t *testing.T) {
	t.Parallel()

	levelPath, playerPath := writeWorld(t, playerDoc("new"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := quietService().GraftFiles(ctx, levelPath, playerPath); err == nil {
		t.Fatal("expected context error")
	}
}
