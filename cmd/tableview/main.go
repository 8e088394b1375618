// Command tableview loads a file of records into an observable list and runs
// queries against it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	if err := mainImpl(); err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "tableview: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	version := flag.Bool("version", false, "Print version and exit")
	configPath := flag.String("config", "", "YAML config file")
	file := flag.String("file", "", "Records file (.jsonl, .json, .yaml)")
	format := flag.String("format", "", "Records format (jsonl, json, yaml); inferred from -file by default")
	out := flag.String("out", "", "Save the records to this file, format inferred from its extension")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	watch := flag.Bool("watch", false, "Reload the records whenever -file changes")
	readOnly := flag.Bool("read-only", false, "Reject every write")
	var q query
	flag.IntVar(&q.get, "get", -1, "Print row ROW")
	flag.StringVar(&q.find, "find", "", "Print the rows where name=value")
	flag.BoolVar(&q.sorted, "sorted", false, "Assume rows are sorted by the -find property and use binary search")
	flag.StringVar(&q.isSorted, "is-sorted", "", "Report whether rows are sorted by this property")
	flag.StringVar(&q.set, "set", "", "Write ROW:name=value; value is parsed as JSON when possible")
	flag.BoolVar(&q.arrow, "arrow", false, "Print the Arrow schema of the records")
	flag.StringVar(&q.parquet, "parquet", "", "Write the records to this Parquet file")
	flag.Parse()
	if len(flag.Args()) > 0 {
		return fmt.Errorf("unknown arguments: %v", flag.Args())
	}
	if *version {
		fmt.Println(versionString())
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM, os.Interrupt)
	defer stop()
	ll := &slog.LevelVar{}
	ll.Set(slog.LevelInfo)
	logger := slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:      ll,
		TimeFormat: "15:04:05.000", // Like time.TimeOnly plus milliseconds.
		NoColor:    !isatty.IsTerminal(os.Stderr.Fd()),
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			val := a.Value.Any()
			skip := false
			switch t := val.(type) {
			case string:
				skip = t == ""
			case bool:
				skip = !t
			case uint64:
				skip = t == 0
			case int64:
				skip = t == 0
			case float64:
				skip = t == 0
			case time.Time:
				skip = t.IsZero()
			case time.Duration:
				skip = t == 0
			case nil:
				skip = true
			}
			if skip {
				return slog.Attr{}
			}
			return a
		},
	}))
	slog.SetDefault(logger)

	cfg := defaultConfig()
	if *configPath != "" {
		var err error
		if cfg, err = LoadConfig(*configPath); err != nil {
			return err
		}
	}

	// .env values override the config file, flags override both.
	if err := applyDotEnv(".", cfg); err != nil {
		return err
	}
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["file"] {
		cfg.File = *file
	}
	if set["format"] {
		cfg.Format = *format
	}
	if set["out"] {
		cfg.Out = *out
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}
	if set["watch"] {
		cfg.Watch = *watch
	}
	if set["read-only"] {
		cfg.ReadOnly = *readOnly
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	level, _ := parseLevel(cfg.LogLevel)
	ll.Set(level)

	return run(ctx, cfg, &q, os.Stdout)
}

// versionString describes the build from the embedded module information.
func versionString() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "tableview unknown"
	}
	version := info.Main.Version
	if version == "" || version == "(devel)" {
		version = "dev"
	}
	out := "tableview " + version + " " + info.GoVersion
	for _, setting := range info.Settings {
		switch {
		case setting.Key == "vcs.revision":
			out += " " + setting.Value
		case setting.Key == "vcs.modified" && setting.Value == "true":
			out += " (modified)"
		}
	}
	return out
}

// applyDotEnv overrides cfg with the TABLEVIEW_* and LOG_LEVEL entries of the
// .env file in dir, if any. Values may be double quoted.
func applyDotEnv(dir string, cfg *Config) error {
	content, err := os.ReadFile(filepath.Join(dir, ".env")) //nolint:gosec // G304: fixed name in dir
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	for n, line := range strings.Split(string(content), "\n") {
		key, val, ok := strings.Cut(strings.TrimSpace(line), "=")
		if !ok || strings.HasPrefix(key, "#") {
			continue
		}
		key = strings.TrimSpace(key)
		if val = strings.TrimSpace(val); strings.HasPrefix(val, "\"") {
			if val, err = strconv.Unquote(val); err != nil {
				return fmt.Errorf(".env line %d: %w", n+1, err)
			}
		}
		switch key {
		case "TABLEVIEW_FILE":
			cfg.File = val
		case "TABLEVIEW_FORMAT":
			cfg.Format = val
		case "TABLEVIEW_OUT":
			cfg.Out = val
		case "LOG_LEVEL":
			cfg.LogLevel = val
		case "TABLEVIEW_WATCH_INTERVAL":
			if cfg.WatchInterval, err = time.ParseDuration(val); err != nil {
				return fmt.Errorf(".env line %d: %w", n+1, err)
			}
		default:
			slog.Debug("Ignoring .env entry", "key", key)
		}
	}
	return nil
}
