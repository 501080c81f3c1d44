// Package main is the entry point for adxfind, a find and replace tool
// with a terminal interface and a headless batch mode.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/adxstudio/internal/config"
	"github.com/dshills/adxstudio/internal/engine/buffer"
	"github.com/dshills/adxstudio/internal/find"
	"github.com/dshills/adxstudio/internal/frontend"
	"github.com/dshills/adxstudio/internal/plugin/lua"
	"github.com/dshills/adxstudio/internal/report"
	"github.com/dshills/adxstudio/internal/view"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Exit codes.
const (
	exitOK      = 0
	exitNoMatch = 1
	exitError   = 2
)

var errUsage = errors.New("usage")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type options struct {
	configPath string
	logLevel   string
	logFile    string
	pattern    string
	replace    string
	script     string
	regex      bool
	caseSens   bool
	word       bool
	json       bool
	write      bool
	version    bool

	file string
	set  map[string]bool
}

func (o options) headless() bool {
	return o.set["pattern"] || o.script != ""
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options

	fs := flag.NewFlagSet("adxfind", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "Path to a TOML or YAML configuration file")
	fs.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	fs.StringVar(&opts.logFile, "log-file", "", "Write logs to this file in terminal mode")
	fs.StringVar(&opts.pattern, "pattern", "", "Search pattern; runs without the terminal interface")
	fs.StringVar(&opts.replace, "replace", "", "Replace every match with this text")
	fs.StringVar(&opts.script, "script", "", "Run a Lua find script against the file")
	fs.BoolVar(&opts.regex, "regex", false, "Treat the pattern as a regular expression")
	fs.BoolVar(&opts.caseSens, "case", false, "Match case")
	fs.BoolVar(&opts.word, "word", false, "Match whole words only")
	fs.BoolVar(&opts.json, "json", false, "Print matches as JSON")
	fs.BoolVar(&opts.write, "write", false, "Write the edited text back to the file")
	fs.BoolVar(&opts.version, "version", false, "Show version information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "adxfind - find and replace\n\n")
		fmt.Fprintf(stderr, "Usage: adxfind [options] [file]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(stderr, "\nExamples:\n")
		fmt.Fprintf(stderr, "  adxfind notes.txt                         Open the terminal interface\n")
		fmt.Fprintf(stderr, "  adxfind -pattern cat -word notes.txt       List whole-word matches\n")
		fmt.Fprintf(stderr, "  adxfind -pattern a -replace b -write f.txt Replace in place\n")
		fmt.Fprintf(stderr, "  adxfind -script fix.lua -write f.txt       Run a script\n")
	}

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if fs.NArg() > 1 {
		fs.Usage()
		return opts, fmt.Errorf("%w: at most one file", errUsage)
	}
	opts.file = fs.Arg(0)

	opts.set = make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })
	return opts, nil
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if opts.version {
		fmt.Fprintf(stdout, "adxfind %s\n", version)
		fmt.Fprintf(stdout, "Commit: %s\n", commit)
		fmt.Fprintf(stdout, "Built: %s\n", date)
		return exitOK
	}

	cfg, err := loadConfig(opts)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}

	if opts.headless() {
		code, err := runHeadless(ctx, opts, cfg, stdin, stdout, stderr)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitError
		}
		return code
	}

	if err := runTerminal(ctx, opts, cfg); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(opts options) (config.Config, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return cfg, err
	}
	applyFlags(&cfg, opts)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyFlags(cfg *config.Config, opts options) {
	if opts.set["log-level"] {
		cfg.Log.Level = opts.logLevel
	}
	if opts.set["regex"] {
		cfg.Find.Regex = opts.regex
	}
	if opts.set["case"] {
		cfg.Find.CaseSensitive = opts.caseSens
	}
	if opts.set["word"] {
		cfg.Find.WholeWord = opts.word
	}
}

func readDocument(path string, stdin io.Reader) (*buffer.Buffer, error) {
	if path == "" || path == "-" {
		return buffer.NewBufferFromReader(stdin, buffer.WithoutNormalization())
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return buffer.NewBufferFromReader(f, buffer.WithoutNormalization())
}

func writeDocument(path, text string) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	if err := os.WriteFile(path, []byte(text), mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func runHeadless(ctx context.Context, opts options, cfg config.Config, stdin io.Reader, stdout, stderr io.Writer) (int, error) {
	if opts.write && (opts.file == "" || opts.file == "-") {
		return exitError, fmt.Errorf("%w: -write needs a file argument", errUsage)
	}

	logger := cfg.Log.NewLogger(stderr)
	buf, err := readDocument(opts.file, stdin)
	if err != nil {
		return exitError, err
	}

	findOpts := append(cfg.Find.SessionOptions(), find.WithDebounce(0))
	v := view.New(buf, view.WithLogger(logger), view.WithFindOptions(findOpts...))
	defer v.Close()

	s := v.Finder()
	mode := find.ModeFind
	if opts.set["replace"] {
		mode = find.ModeReplace
	}
	s.Open(mode)

	replaced := 0
	if opts.set["pattern"] {
		n := s.SearchFor(opts.pattern)
		logger.Debug("search", "pattern", opts.pattern, "matches", n)
		if opts.set["replace"] {
			s.SetReplacement(opts.replace)
			replaced = s.ReplaceAll()
			logger.Info("replaced", "pattern", opts.pattern, "count", replaced)
		}
	}

	if opts.script != "" {
		if err := runScript(ctx, opts.script, v, stdout, logger); err != nil {
			return exitError, err
		}
	}

	source := opts.file
	if source == "-" {
		source = ""
	}
	if opts.json {
		out, err := report.JSON(s, v.Text(), report.WithSource(source), report.WithReplaced(replaced), report.WithIndent())
		if err != nil {
			return exitError, err
		}
		if _, err := stdout.Write(out); err != nil {
			return exitError, err
		}
	} else if opts.set["pattern"] {
		if err := report.Text(stdout, s, v.Text(), report.WithSource(source)); err != nil {
			return exitError, err
		}
		if replaced > 0 {
			fmt.Fprintf(stdout, "replaced %d.\n", replaced)
		} else {
			fmt.Fprintln(stdout, s.Summary())
		}
	}

	if opts.write {
		if err := writeDocument(opts.file, v.Text()); err != nil {
			return exitError, err
		}
	}

	if opts.set["pattern"] && opts.script == "" && replaced == 0 && s.Count() == 0 {
		return exitNoMatch, nil
	}
	return exitOK, nil
}

func runScript(ctx context.Context, path string, v *view.View, stdout io.Writer, logger *slog.Logger) error {
	state := lua.NewState(lua.WithOutput(stdout), lua.WithLogger(logger))
	defer state.Close()

	if err := state.Register(lua.NewFindModule(v)); err != nil {
		return err
	}
	if err := state.DoFile(ctx, path); err != nil {
		return fmt.Errorf("script %s: %w", path, err)
	}
	return nil
}

func runTerminal(ctx context.Context, opts options, cfg config.Config) error {
	logger, closeLog, err := terminalLogger(opts.logFile, cfg.Log)
	if err != nil {
		return err
	}
	defer closeLog()

	if opts.file == "-" {
		return fmt.Errorf("%w: the terminal interface cannot read stdin", errUsage)
	}

	buf := buffer.NewBuffer()
	if opts.file != "" {
		if buf, err = readDocument(opts.file, nil); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return err
			}
			buf = buffer.NewBuffer()
		}
	}

	km, err := cfg.Keys.Keymap()
	if err != nil {
		return err
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("init terminal: %w", err)
	}
	defer screen.Fini()

	findOpts := append(cfg.Find.SessionOptions(), frontend.SessionOptions(screen, logger)...)
	v := view.New(buf, view.WithLogger(logger), view.WithFindOptions(findOpts...))
	defer v.Close()

	appOpts := []frontend.Option{frontend.WithKeymap(km), frontend.WithLogger(logger)}
	if opts.file != "" {
		path := opts.file
		appOpts = append(appOpts,
			frontend.WithTitle(path),
			frontend.WithSave(func(text string) error { return writeDocument(path, text) }),
		)
	}
	app := frontend.New(screen, v, appOpts...)

	if opts.configPath != "" {
		w, err := config.Watch(opts.configPath, func(next config.Config, err error) {
			app.Post(func() { reloadConfig(app, v, opts, next, err) })
		}, config.WithWatchLogger(logger))
		if err != nil {
			logger.Warn("config watch disabled", "path", opts.configPath, "error", err)
		} else {
			defer w.Close()
		}
	}

	logger.Info("terminal started", "file", opts.file)
	return app.Run(ctx)
}

// reloadConfig applies a reloaded config on the event loop.
func reloadConfig(app *frontend.App, v *view.View, opts options, next config.Config, err error) {
	if err != nil {
		app.SetMessage("config: " + err.Error())
		return
	}
	applyFlags(&next, opts)
	km, err := next.Keys.Keymap()
	if err != nil {
		app.SetMessage("config: " + err.Error())
		return
	}
	app.SetKeymap(km)
	if s := v.Finder(); s != nil {
		s.SetOptions(next.Find.Options())
	}
}

func terminalLogger(path string, lc config.LogConfig) (*slog.Logger, func(), error) {
	if path == "" {
		return slog.New(slog.DiscardHandler), func() {}, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return lc.NewLogger(f), func() { f.Close() }, nil
}
