// Package main is the entry point for the marktext editor.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/term"

	"github.com/dshills/marktext/internal/app"
	"github.com/dshills/marktext/internal/config"
	"github.com/dshills/marktext/internal/logging"
	"github.com/dshills/marktext/internal/renderer/backend"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

type options struct {
	configPath string
	logLevel   string
	logFile    string
	noWatch    bool
	files      []string
}

func main() {
	os.Exit(run())
}

func run() int {
	opts := parseFlags()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	if opts.logLevel != "" {
		cfg.Logging.Level = opts.logLevel
	}
	if opts.logFile != "" {
		cfg.Logging.File = opts.logFile
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open log: %v\n", err)
		return 1
	}
	defer closeLog()

	screen, err := backend.NewTerminal()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to create terminal: %v\n", err)
		return 1
	}

	application, err := app.New(app.Options{Config: cfg, Logger: logger, Backend: screen})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize: %v\n", err)
		return 1
	}
	defer application.Shutdown()

	if err := openFiles(application, opts.files); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	if opts.configPath != "" && !opts.noWatch {
		if err := application.WatchConfig(opts.configPath); err != nil {
			logger.Warn("config reload disabled: %v", err)
		}
	}

	// Handle signals for graceful shutdown
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-signals
		application.Stop()
	}()

	if err := application.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// openFiles opens each named file. "-", or no files with piped input,
// reads standard input.
func openFiles(application *app.Application, files []string) error {
	if len(files) == 0 && !term.IsTerminal(int(os.Stdin.Fd())) {
		files = []string{"-"}
	}
	for _, f := range files {
		if f == "-" {
			if _, err := application.OpenReader("[stdin]", os.Stdin); err != nil {
				return err
			}
			continue
		}
		application.OpenFile(f)
	}
	return nil
}

// newLogger builds the logger described by cfg. Without a log file the
// log is discarded, since the terminal belongs to the editor.
func newLogger(cfg *config.Config) (*logging.Logger, func(), error) {
	if cfg.Logging.File == "" {
		return logging.Null(), func() {}, nil
	}
	f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, err
	}

	lc := logging.DefaultConfig()
	lc.Level = cfg.LogLevel()
	lc.Output = f
	logger := logging.New(lc)
	logger.Info("marktext %s starting", version)
	return logger, func() { _ = f.Close() }, nil
}

func parseFlags() options {
	var opts options
	var showVersion bool

	flag.StringVar(&opts.configPath, "config", config.DefaultPath(), "Path to configuration file (TOML or YAML)")
	flag.StringVar(&opts.configPath, "c", config.DefaultPath(), "Path to configuration file (shorthand)")
	flag.StringVar(&opts.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides the config file")
	flag.StringVar(&opts.logFile, "log-file", "", "Write the log to this file; overrides the config file")
	flag.BoolVar(&opts.noWatch, "no-watch", false, "Do not reload the config file when it changes")
	flag.BoolVar(&showVersion, "version", false, "Show version information")
	flag.BoolVar(&showVersion, "v", false, "Show version information (shorthand)")

	flag.Usage = func() {
		out := flag.CommandLine.Output()
		fmt.Fprintf(out, "marktext - a small modal text editor\n\n")
		fmt.Fprintf(out, "Usage: marktext [options] [files...]\n\n")
		fmt.Fprintf(out, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(out, "\nExamples:\n")
		fmt.Fprintf(out, "  marktext                  Open an empty buffer\n")
		fmt.Fprintf(out, "  marktext notes.txt        Open a file\n")
		fmt.Fprintf(out, "  ls | marktext             Edit piped input\n")
	}

	flag.Parse()

	if showVersion {
		printVersion(os.Stdout)
		os.Exit(0)
	}

	if opts.logLevel != "" && !logging.ValidLevel(opts.logLevel) {
		fmt.Fprintf(os.Stderr, "Error: invalid log level %q (must be debug, info, warn, or error)\n", opts.logLevel)
		os.Exit(2)
	}

	opts.files = flag.Args()
	return opts
}

func printVersion(w io.Writer) {
	fmt.Fprintf(w, "marktext %s\n", version)
	fmt.Fprintf(w, "Commit: %s\n", commit)
	fmt.Fprintf(w, "Built: %s\n", date)
}
