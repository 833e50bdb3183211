package savegraft

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	apperrors "github.com/louisbranch/savegraft/internal/platform/errors"
	errorsi18n "github.com/louisbranch/savegraft/internal/platform/errors/i18n"
	"github.com/louisbranch/savegraft/internal/platform/i18n/catalog"
)

// Run executes the savegraft command. Results go to out, diagnostics to
// errOut, and the menu reads from in. cfg.Timeout bounds a single action; the
// menu runs until the user leaves it.
func Run(ctx context.Context, cfg Config, in io.Reader, out io.Writer, errOut io.Writer) error {
	if !cfg.Menu() && cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
	}
	if out == nil {
		out = io.Discard
	}
	if errOut == nil {
		errOut = io.Discard
	}
	if strings.TrimSpace(cfg.Root) == "" {
		return errors.New("installation path is required: set -path or SAVEGRAFT_ROOT")
	}

	logger := log.New(errOut, "savegraft: ", 0)
	svc, closeSvc, err := NewService(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeSvc(); closeErr != nil {
			fmt.Fprintf(errOut, "Error: close name cache: %v\n", closeErr)
		}
	}()

	printer := catalog.Default().Printer(cfg.Lang)
	var frontend Frontend
	if cfg.Menu() {
		if in == nil {
			return errors.New("interactive mode needs an input")
		}
		frontend = &PromptFrontend{
			In:       in,
			Out:      out,
			Printer:  printer,
			Describe: func(err error) string { return Describe(cfg.Lang, err) },
		}
	} else {
		frontend = &FlagFrontend{
			Action:  cfg.Action,
			UUID:    cfg.UUID,
			World:   cfg.World,
			Out:     out,
			Printer: printer,
		}
	}
	return frontend.Run(ctx, svc)
}

// Describe renders err for the user in lang.
func Describe(lang string, err error) string {
	return errorsi18n.Localize(lang, err)
}

// ExitCode maps err to the process exit status.
func ExitCode(err error) int {
	return apperrors.CodeOf(err).ExitCode()
}
