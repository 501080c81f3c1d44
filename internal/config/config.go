package config

import (
	"errors"
	"strings"
	"time"

	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/input/key"
	"github.com/dshills/adxstudio/internal/input/keymap"
)

// Config is the complete configuration.
type Config struct {
	Find FindConfig `toml:"find" yaml:"find"`
	Keys KeysConfig `toml:"keys" yaml:"keys"`
	Log  LogConfig  `toml:"log" yaml:"log"`
}

// FindConfig holds the find session settings.
type FindConfig struct {
	// DebounceMs delays the live search after a pattern keystroke.
	DebounceMs int `toml:"debounce_ms" yaml:"debounce_ms"`

	// MatchTimeoutMs bounds one regular expression evaluation. Zero
	// disables the limit.
	MatchTimeoutMs int `toml:"match_timeout_ms" yaml:"match_timeout_ms"`

	CaseSensitive bool `toml:"case_sensitive" yaml:"case_sensitive"`
	WholeWord     bool `toml:"whole_word" yaml:"whole_word"`
	Regex         bool `toml:"regex" yaml:"regex"`

	// ViewportShrink is the number of rows the find bar occupies.
	ViewportShrink int `toml:"viewport_shrink" yaml:"viewport_shrink"`
}

// KeysConfig holds the global key bindings. An empty value unbinds the
// command.
type KeysConfig struct {
	Find     string `toml:"find" yaml:"find"`
	Replace  string `toml:"replace" yaml:"replace"`
	FindNext string `toml:"find_next" yaml:"find_next"`
	FindPrev string `toml:"find_previous" yaml:"find_previous"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn or error.
	Level string `toml:"level" yaml:"level"`

	// Format is text or json.
	Format string `toml:"format" yaml:"format"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Find: FindConfig{
			DebounceMs:     int(find.DefaultDebounce / time.Millisecond),
			MatchTimeoutMs: int(find.DefaultMatchTimeout / time.Millisecond),
			ViewportShrink: find.DefaultViewportShrink,
		},
		Keys: KeysConfig{
			Find:     "Ctrl+F",
			Replace:  "Ctrl+H",
			FindNext: "F3",
			FindPrev: "Shift+F3",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error

	if c.Find.DebounceMs < 0 {
		errs = append(errs, invalid("find.debounce_ms", "must not be negative"))
	}
	if c.Find.MatchTimeoutMs < 0 {
		errs = append(errs, invalid("find.match_timeout_ms", "must not be negative"))
	}
	if c.Find.ViewportShrink < 0 {
		errs = append(errs, invalid("find.viewport_shrink", "must not be negative"))
	}

	for cmd, spec := range c.Keys.bindings() {
		if spec == "" {
			continue
		}
		if _, err := key.Parse(spec); err != nil {
			errs = append(errs, invalid("keys."+string(cmd), "%v", err))
		}
	}
	if _, err := c.Keys.Keymap(); err != nil && !errors.Is(err, key.ErrInvalidSpec) {
		errs = append(errs, invalid("keys", "%v", err))
	}

	if _, ok := parseLevel(c.Log.Level); !ok {
		errs = append(errs, invalid("log.level", "unknown level %q", c.Log.Level))
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		errs = append(errs, invalid("log.format", "unknown format %q", c.Log.Format))
	}

	return errors.Join(errs...)
}

// Debounce returns the live search delay.
func (f FindConfig) Debounce() time.Duration {
	return time.Duration(f.DebounceMs) * time.Millisecond
}

// MatchTimeout returns the regular expression time limit.
func (f FindConfig) MatchTimeout() time.Duration {
	return time.Duration(f.MatchTimeoutMs) * time.Millisecond
}

// Options returns the initial search toggles.
func (f FindConfig) Options() find.Options {
	return find.Options{
		CaseSensitive: f.CaseSensitive,
		WholeWord:     f.WholeWord,
		Regex:         f.Regex,
	}.Normalize()
}

// SessionOptions returns the find session options for f.
func (f FindConfig) SessionOptions() []find.Option {
	return []find.Option{
		find.WithDebounce(f.Debounce()),
		find.WithMatchTimeout(f.MatchTimeout()),
		find.WithViewportShrink(f.ViewportShrink),
		find.WithOptions(f.Options()),
	}
}

func (k KeysConfig) bindings() map[find.Command]string {
	return map[find.Command]string{
		find.CommandFind:     k.Find,
		find.CommandReplace:  k.Replace,
		find.CommandFindNext: k.FindNext,
		find.CommandFindPrev: k.FindPrev,
	}
}

// Keymap builds the keymap described by k.
func (k KeysConfig) Keymap() (*keymap.Keymap, error) {
	km := keymap.New("config")
	// Bind in a fixed order so conflict errors are deterministic.
	specs := k.bindings()
	for _, cmd := range find.Commands() {
		if err := km.Bind(cmd, specs[cmd]); err != nil {
			return nil, err
		}
	}
	return km, nil
}
