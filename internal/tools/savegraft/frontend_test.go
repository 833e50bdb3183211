package savegraft

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/louisbranch/savegraft/internal/install"
	"github.com/louisbranch/savegraft/internal/ownership"
	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	"github.com/louisbranch/savegraft/internal/platform/i18n/catalog"
	"github.com/louisbranch/savegraft/internal/players"
)

type fakeCore struct {
	root      string
	worlds    []install.World
	summaries []players.Summary
	graftErr  error
	grafts    [][2]string
	listed    []string
}

func (f *fakeCore) Root() string { return f.root }

func (f *fakeCore) GraftIdentity(_ context.Context, uuidArg, worldArg string) (ownership.Result, error) {
	f.grafts = append(f.grafts, [2]string{uuidArg, worldArg})
	if f.graftErr != nil {
		return ownership.Result{}, f.graftErr
	}
	return ownership.Result{LevelPath: worldArg + "/level.dat", PlayerPath: uuidArg + ".dat", BackupPath: worldArg + "/level.dat_old"}, nil
}

func (f *fakeCore) ListWorlds(context.Context) ([]install.World, error) {
	return f.worlds, nil
}

func (f *fakeCore) ListPlayers(_ context.Context, worldArg string) ([]players.Summary, error) {
	f.listed = append(f.listed, worldArg)
	return f.summaries, nil
}

func TestFlagFrontendGraft(t *testing.T) {
	t.Parallel()

	core := &fakeCore{}
	var out bytes.Buffer
	fe := &FlagFrontend{Action: ActionGraft, UUID: "steve", World: "W", Out: &out, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}
	want := "Player data from steve.dat copied into W/level.dat\nPrevious level saved as W/level.dat_old\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestFlagFrontendPlayersShowsUnknownName(t *testing.T) {
	t.Parallel()

	core := &fakeCore{summaries: []players.Summary{
		{ID: "a", Name: "Alex", XPLevel: 3, Pos: [3]float64{1, 2, 3}},
		{ID: "b", XPLevel: 7, Pos: [3]float64{-1.5, 70, 0}},
	}}
	var out bytes.Buffer
	fe := &FlagFrontend{Action: ActionPlayers, World: "W", Out: &out, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}
	got := out.String()
	for _, want := range []string{
		"Players in W:",
		"  a  Alex  level 3  at (1.0, 2.0, 3.0)",
		"  b  <unknown>  level 7  at (-1.5, 70.0, 0.0)",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
}

func TestFlagFrontendWorlds(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	printer := catalog.Default().Printer("en-US")
	empty := &FlagFrontend{Action: ActionWorlds, Out: &out, Printer: printer}
	if err := empty.Run(context.Background(), &fakeCore{root: "/mc"}); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "No worlds found in /mc\n" {
		t.Fatalf("output = %q", out.String())
	}

	out.Reset()
	core := &fakeCore{root: "/mc", worlds: []install.World{{Name: "A"}, {Name: "B"}}}
	if err := empty.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}
	if out.String() != "Worlds in /mc:\n  A\n  B\n" {
		t.Fatalf("output = %q", out.String())
	}
}

func TestFlagFrontendReturnsCoreError(t *testing.T) {
	t.Parallel()

	want := apperrors.New(apperrors.CodeNotFound, "gone")
	fe := &FlagFrontend{Action: ActionGraft, UUID: "x", World: "W", Out: &bytes.Buffer{}, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(context.Background(), &fakeCore{graftErr: want}); !errors.Is(err, want) {
		t.Fatalf("expected core error, got %v", err)
	}
}

func TestPromptFrontendMenuLoop(t *testing.T) {
	t.Parallel()

	core := &fakeCore{root: "/mc", graftErr: errors.New("boom")}
	in := strings.NewReader("2\n7\n1\nW\nsteve\n3\nW\nq\n")
	var out bytes.Buffer
	fe := &PromptFrontend{In: in, Out: &out, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(core.grafts) != 1 || core.grafts[0] != [2]string{"steve", "W"} {
		t.Fatalf("grafts = %v", core.grafts)
	}
	if len(core.listed) != 2 || core.listed[0] != "W" || core.listed[1] != "W" {
		t.Fatalf("listed = %v, want the graft and the listing to read W", core.listed)
	}
	got := out.String()
	for _, want := range []string{
		"No worlds found in /mc",
		`Unknown choice "7"`,
		"Error: boom",
		"No players found in W",
		"Bye",
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("output %q missing %q", got, want)
		}
	}
}

func TestPromptFrontendPicksByNumber(t *testing.T) {
	t.Parallel()

	core := &fakeCore{
		root:   "/mc",
		worlds: []install.World{{Name: "A"}, {Name: "B"}},
		summaries: []players.Summary{
			{ID: "a", Name: "Alex", XPLevel: 3, Path: "/mc/saves/B/playerdata/a.dat"},
			{ID: "b", XPLevel: 7, Path: "/mc/saves/B/playerdata/b.dat"},
		},
	}
	in := strings.NewReader("1\n5\n2\n3\n2\n3\n1\n3\nMy World\n0\n")
	var out bytes.Buffer
	fe := &PromptFrontend{In: in, Out: &out, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}

	if len(core.grafts) != 1 || core.grafts[0] != [2]string{"/mc/saves/B/playerdata/b.dat", "B"} {
		t.Fatalf("grafts = %v", core.grafts)
	}
	want := []string{"B", "A", "My World"}
	if len(core.listed) != len(want) {
		t.Fatalf("listed = %v, want %v", core.listed, want)
	}
	for i := range want {
		if core.listed[i] != want[i] {
			t.Fatalf("listed = %v, want %v", core.listed, want)
		}
	}
	got := out.String()
	for _, line := range []string{
		"1) A\n2) B\n",
		"Choose a number from 1 to 2",
		"1) a  Alex  level 3  at (0.0, 0.0, 0.0)",
		"2) b  <unknown>  level 7  at (0.0, 0.0, 0.0)",
	} {
		if !strings.Contains(got, line) {
			t.Fatalf("output %q missing %q", got, line)
		}
	}
	if n := strings.Count(got, "Choose a number from 1 to 2"); n != 2 {
		t.Fatalf("out of range notices = %d, want 2", n)
	}
}

func TestPromptFrontendEndsOnEOF(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	fe := &PromptFrontend{
		In:       strings.NewReader("1\nW\n"),
		Out:      &out,
		Printer:  catalog.Default().Printer("en-US"),
		Describe: func(error) string { return "described" },
	}
	core := &fakeCore{}
	if err := fe.Run(context.Background(), core); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(core.grafts) != 0 {
		t.Fatalf("expected no graft on truncated input, got %v", core.grafts)
	}
	if !strings.HasSuffix(out.String(), "Bye\n") {
		t.Fatalf("output = %q, want it to end with Bye", out.String())
	}
}

func TestPromptFrontendStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	fe := &PromptFrontend{In: strings.NewReader("2\n"), Out: &bytes.Buffer{}, Printer: catalog.Default().Printer("en-US")}
	if err := fe.Run(ctx, &fakeCore{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPromptFrontendStopsWaitingForInputOnCancel(t *testing.T) {
	t.Parallel()

	in, w := io.Pipe()
	t.Cleanup(func() { _ = w.Close() })
	ctx, cancel := context.WithCancel(context.Background())
	fe := &PromptFrontend{In: in, Out: io.Discard, Printer: catalog.Default().Printer("en-US")}

	errc := make(chan error, 1)
	go func() { errc <- fe.Run(ctx, &fakeCore{}) }()
	cancel()

	select {
	case err := <-errc:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("menu kept waiting for input after cancel")
	}
}
