package savegraft

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/louisbranch/savegraft/internal/install"
	"github.com/louisbranch/savegraft/internal/ownership"
	"github.com/louisbranch/savegraft/internal/players"
)

// Frontend presents Core to a user.
type Frontend interface {
	Run(ctx context.Context, core Core) error
}

// view renders Core results through a localized printer.
type view struct {
	out     io.Writer
	printer *message.Printer
}

func (v view) line(key message.Reference, args ...any) {
	v.printer.Fprintf(v.out, key, args...)
	fmt.Fprintln(v.out)
}

func (v view) grafted(res ownership.Result) {
	v.line("cli.graft.done", res.PlayerPath, res.LevelPath)
	if res.BackupPath != "" {
		v.line("cli.graft.backup", res.BackupPath)
	}
}

func (v view) worlds(root string, worlds []install.World) {
	if len(worlds) == 0 {
		v.line("cli.worlds.empty", root)
		return
	}
	v.line("cli.worlds.header", root)
	for _, w := range worlds {
		v.line("cli.worlds.row", w.Name)
	}
}

func (v view) players(world string, summaries []players.Summary) {
	if len(summaries) == 0 {
		v.line("cli.players.empty", world)
		return
	}
	v.line("cli.players.header", world)
	for _, s := range summaries {
		v.line("cli.players.row", s.ID, v.name(s), s.XPLevel, s.Pos[0], s.Pos[1], s.Pos[2])
	}
}

// numberedPlayers lists summaries counting from 1.
func (v view) numberedPlayers(world string, summaries []players.Summary) {
	if len(summaries) == 0 {
		v.line("cli.players.empty", world)
		return
	}
	v.line("cli.players.header", world)
	for i, s := range summaries {
		v.line("cli.players.numbered", i+1, s.ID, v.name(s), s.XPLevel, s.Pos[0], s.Pos[1], s.Pos[2])
	}
}

func (v view) name(s players.Summary) string {
	if !s.HasName() {
		return v.printer.Sprintf("cli.players.unknown_name")
	}
	return s.Name
}

// FlagFrontend performs one action chosen on the command line.
type FlagFrontend struct {
	Action  string
	UUID    string
	World   string
	Out     io.Writer
	Printer *message.Printer
}

// Run implements Frontend.
func (f *FlagFrontend) Run(ctx context.Context, core Core) error {
	v := view{out: f.Out, printer: f.Printer}
	switch f.Action {
	case ActionWorlds:
		worlds, err := core.ListWorlds(ctx)
		if err != nil {
			return err
		}
		v.worlds(core.Root(), worlds)
	case ActionPlayers:
		summaries, err := core.ListPlayers(ctx, f.World)
		if err != nil {
			return err
		}
		v.players(f.World, summaries)
	case ActionGraft:
		res, err := core.GraftIdentity(ctx, f.UUID, f.World)
		if err != nil {
			return err
		}
		v.grafted(res)
	default:
		return fmt.Errorf("unknown action %q", f.Action)
	}
	return nil
}

// PromptFrontend runs a menu loop over In until the user quits, In ends or
// ctx is done. A failed action is reported and the menu shown again.
type PromptFrontend struct {
	In      io.Reader
	Out     io.Writer
	Printer *message.Printer
	// Describe renders an error for the user.
	Describe func(error) string
}

// Run implements Frontend.
func (p *PromptFrontend) Run(ctx context.Context, core Core) error {
	stop := make(chan struct{})
	defer close(stop)
	s := &session{ctx: ctx, core: core, view: view{out: p.Out, printer: p.Printer}, describe: p.describe}
	s.lines = s.read(p.In, stop)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		s.line("cli.prompt.menu")
		choice, ok := s.ask("cli.prompt.choice")
		if !ok {
			return s.end()
		}

		var err error
		switch choice {
		case "0", "q":
			s.line("cli.prompt.bye")
			return nil
		case "1":
			ok, err = s.graft()
		case "2":
			var worlds []install.World
			if worlds, err = core.ListWorlds(ctx); err == nil {
				s.worlds(core.Root(), worlds)
			}
		case "3":
			ok, err = s.listPlayers()
		default:
			s.line("cli.prompt.invalid", choice)
		}
		if !ok {
			return s.end()
		}
		if err != nil {
			s.line("cli.error", s.describe(err))
		}
	}
}

func (p *PromptFrontend) describe(err error) string {
	if p.Describe != nil {
		return p.Describe(err)
	}
	return err.Error()
}

// session is one run of the menu. Helpers return false once input has
// stopped, either because it ended or because ctx is done.
type session struct {
	view
	ctx      context.Context
	core     Core
	describe func(error) string
	lines    <-chan string
	// readErr is set before lines is closed.
	readErr error
}

// read feeds trimmed lines from in until in ends or stop is closed.
func (s *session) read(in io.Reader, stop <-chan struct{}) <-chan string {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- strings.TrimSpace(scanner.Text()):
			case <-stop:
				return
			}
		}
		s.readErr = scanner.Err()
	}()
	return lines
}

func (s *session) ask(key message.Reference) (string, bool) {
	s.printer.Fprintf(s.out, key)
	select {
	case <-s.ctx.Done():
		return "", false
	case line, ok := <-s.lines:
		return line, ok
	}
}

// end reports why input stopped.
func (s *session) end() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}
	s.line("cli.prompt.bye")
	return s.readErr
}

// choose asks key until the answer is usable. A number picks from values,
// counting from 1; any other answer is returned as typed.
func (s *session) choose(key message.Reference, values []string) (string, bool) {
	for {
		answer, ok := s.ask(key)
		if !ok {
			return "", false
		}
		n, err := strconv.Atoi(answer)
		if err != nil || len(values) == 0 {
			return answer, true
		}
		if n >= 1 && n <= len(values) {
			return values[n-1], true
		}
		s.line("cli.prompt.out_of_range", len(values))
	}
}

// pickWorld lists the worlds by number and asks for one.
func (s *session) pickWorld() (string, bool) {
	// Without a saves directory a world path can still be typed.
	worlds, err := s.core.ListWorlds(s.ctx)
	if err != nil {
		worlds = nil
	}
	names := make([]string, len(worlds))
	for i, w := range worlds {
		names[i] = w.Name
		s.line("cli.worlds.numbered", i+1, w.Name)
	}
	return s.choose("cli.prompt.world", names)
}

// graft shows the players of the chosen world before asking for the new
// owner. A player picked by number is passed on by document path.
func (s *session) graft() (bool, error) {
	world, ok := s.pickWorld()
	if !ok {
		return false, nil
	}
	summaries, err := s.core.ListPlayers(s.ctx, world)
	if err != nil {
		// A player document path can still be typed.
		s.line("cli.error", s.describe(err))
		summaries = nil
	} else {
		s.numberedPlayers(world, summaries)
	}
	paths := make([]string, len(summaries))
	for i, sum := range summaries {
		paths[i] = sum.Path
	}
	uuid, ok := s.choose("cli.prompt.uuid", paths)
	if !ok {
		return false, nil
	}
	res, err := s.core.GraftIdentity(s.ctx, uuid, world)
	if err == nil {
		s.grafted(res)
	}
	return true, err
}

func (s *session) listPlayers() (bool, error) {
	world, ok := s.pickWorld()
	if !ok {
		return false, nil
	}
	summaries, err := s.core.ListPlayers(s.ctx, world)
	if err == nil {
		s.players(world, summaries)
	}
	return true, err
}
