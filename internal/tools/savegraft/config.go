// Package savegraft implements the savegraft command: change the owner of a
// world, list worlds, or list the players of a world.
package savegraft

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/louisbranch/savegraft/internal/install"
	platformcmd "github.com/louisbranch/savegraft/internal/platform/cmd"
	"github.com/louisbranch/savegraft/internal/platform/timeouts"
	"github.com/louisbranch/savegraft/internal/profiles"
)

// Actions accepted by -action.
const (
	ActionGraft   = "graft"
	ActionWorlds  = "worlds"
	ActionPlayers = "players"
)

// Config holds savegraft command configuration. Host-dependent defaults are
// resolved here, once, and never read again by the core packages.
type Config struct {
	Action         string
	UUID           string
	World          string
	Root           string        `env:"SAVEGRAFT_ROOT"`
	Lang           string        `env:"SAVEGRAFT_LANG"`
	SystemLang     string        `env:"LANG"`
	Interactive    bool          `env:"SAVEGRAFT_INTERACTIVE"`
	SkipValidation bool          `env:"SAVEGRAFT_SKIP_VALIDATION"`
	NoBackup       bool          `env:"SAVEGRAFT_NO_BACKUP"`
	LookupLimit    int           `env:"SAVEGRAFT_LOOKUP_LIMIT"`
	LookupPacing   time.Duration `env:"SAVEGRAFT_LOOKUP_PACING"`
	LookupTimeout  time.Duration `env:"SAVEGRAFT_LOOKUP_TIMEOUT"`
	ProfileURL     string        `env:"SAVEGRAFT_PROFILE_URL"`
	NameCache      string        `env:"SAVEGRAFT_NAME_CACHE"`
	NameCacheTTL   time.Duration `env:"SAVEGRAFT_NAME_CACHE_TTL"`
	Timeout        time.Duration `env:"SAVEGRAFT_TIMEOUT"`
}

// host carries what ParseConfig needs from the running system.
type host struct {
	goos string
	home func() (string, error)
}

// ParseConfig parses env and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	return parseConfig(fs, args, host{goos: runtime.GOOS, home: os.UserHomeDir})
}

func parseConfig(fs *flag.FlagSet, args []string, h host) (Config, error) {
	cfg := Config{
		Action:        ActionGraft,
		LookupLimit:   timeouts.LookupConcurrency,
		LookupPacing:  timeouts.LookupPacing,
		LookupTimeout: timeouts.ProfileRequest,
		ProfileURL:    profiles.DefaultURLTemplate,
		NameCacheTTL:  timeouts.NameCacheTTL,
		Timeout:       timeouts.Command,
	}
	if err := platformcmd.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.Root == "" {
		if home, err := h.home(); err == nil {
			cfg.Root = install.DefaultRoot(h.goos, home)
		}
	}
	if cfg.Lang == "" {
		cfg.Lang = cfg.SystemLang
	}

	fs.StringVar(&cfg.Action, "action", cfg.Action, "action to perform: graft, worlds or players")
	fs.StringVar(&cfg.UUID, "uuid", cfg.UUID, "new owner's UUID or path to the new owner's player .dat file")
	fs.StringVar(&cfg.World, "world", cfg.World, "world name, world directory or path to the world's level.dat")
	fs.StringVar(&cfg.Root, "path", cfg.Root, "game installation directory (default: SAVEGRAFT_ROOT or the platform location)")
	fs.StringVar(&cfg.Lang, "lang", cfg.Lang, "message language, e.g. en or ru (default: SAVEGRAFT_LANG or LANG)")
	fs.BoolVar(&cfg.Interactive, "interactive", cfg.Interactive, "run the interactive menu")
	fs.BoolVar(&cfg.SkipValidation, "skip-validation", cfg.SkipValidation, "graft sources that lack XpLevel or Pos")
	fs.BoolVar(&cfg.NoBackup, "no-backup", cfg.NoBackup, "do not keep level.dat_old before grafting")
	fs.IntVar(&cfg.LookupLimit, "lookup-limit", cfg.LookupLimit, "max concurrent name lookups (0 = one per player)")
	fs.DurationVar(&cfg.LookupPacing, "lookup-pacing", cfg.LookupPacing, "pause before each profile service request; cached names do not wait")
	fs.DurationVar(&cfg.LookupTimeout, "lookup-timeout", cfg.LookupTimeout, "timeout for one name lookup")
	fs.StringVar(&cfg.ProfileURL, "profile-url", cfg.ProfileURL, "name lookup URL template; {uuid} is replaced, empty disables lookups")
	fs.StringVar(&cfg.NameCache, "name-cache", cfg.NameCache, "sqlite file caching looked-up names (empty disables)")
	fs.DurationVar(&cfg.NameCacheTTL, "name-cache-ttl", cfg.NameCacheTTL, "how long a cached name is used")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "overall timeout; the interactive menu has none")
	if err := platformcmd.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}

	cfg.Action = strings.ToLower(strings.TrimSpace(cfg.Action))
	switch cfg.Action {
	case ActionGraft, ActionWorlds, ActionPlayers:
	default:
		return Config{}, fmt.Errorf("unknown action %q: want %s, %s or %s", cfg.Action, ActionGraft, ActionWorlds, ActionPlayers)
	}
	if cfg.Timeout <= 0 {
		return Config{}, fmt.Errorf("-timeout must be > 0")
	}
	return cfg, nil
}

// Menu reports whether the menu front end should run. A graft with no player
// given opens the menu.
func (c Config) Menu() bool {
	return c.Interactive || (c.Action == ActionGraft && c.UUID == "")
}
