// Package main is the lintstorm command line front end: it loads checker
// definitions from config and plugins, lints the given files, and prints
// the resulting diagnostics.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dshills/lintstorm/internal/checker"
	"github.com/dshills/lintstorm/internal/lint"
	"github.com/dshills/lintstorm/internal/logging"
	"github.com/dshills/lintstorm/internal/plugin"
	"github.com/dshills/lintstorm/internal/runner"
	"github.com/dshills/lintstorm/internal/settings"
)

// Version information (set via ldflags during build).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

type options struct {
	configPath  string
	pluginDir   string
	logLevel    string
	syntax      string
	showVersion bool
	files       []string
}

func parseFlags() options {
	var opts options
	flag.StringVar(&opts.configPath, "config", "", "path to a TOML or YAML config file")
	flag.StringVar(&opts.pluginDir, "plugins", "", "directory of Lua checker plugins")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flag.StringVar(&opts.syntax, "syntax", "", "force a syntax name instead of inferring from extensions")
	flag.BoolVar(&opts.showVersion, "version", false, "print version and exit")
	flag.Parse()
	opts.files = flag.Args()
	return opts
}

func run() int {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("lintstorm %s (%s, %s)\n", version, commit, date)
		return 0
	}

	logger := logging.New(logging.Config{
		Level:  logging.ParseLevel(opts.logLevel),
		Output: os.Stderr,
		Prefix: "lintstorm",
	})
	logging.SetDefault(logger)

	if len(opts.files) == 0 {
		fmt.Fprintln(os.Stderr, "usage: lintstorm [flags] file ...")
		flag.PrintDefaults()
		return 2
	}

	store := settings.NewStore(opts.configPath, settings.WithStoreLogger(logger))
	if err := store.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	registry := checker.NewRegistry(checker.WithLogger(logger))

	defs, err := store.Definitions()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}

	var loader *plugin.Loader
	if opts.pluginDir != "" {
		loader = plugin.NewLoader(plugin.WithLoaderLogger(logger))
		defer loader.Close()

		pluginDefs, err := loader.LoadDir(opts.pluginDir)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
		defs = append(defs, pluginDefs...)
	}

	if len(defs) == 0 {
		fmt.Fprintln(os.Stderr, "Error: no checkers defined; use -config or -plugins")
		return 2
	}

	for _, def := range defs {
		if err := registry.Register(def); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}
	}
	registry.RecomputeSettings(store)

	mgr := lint.NewManager(registry,
		lint.WithRunner(runner.NewExecRunner()),
		lint.WithSettings(store),
		lint.WithManagerLogger(logger),
	)

	sawError := false
	ctx := context.Background()

	for _, path := range opts.files {
		data, err := os.ReadFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 2
		}

		buf := lint.BufferID(path)
		label := syntaxLabelFor(path, opts.syntax)

		if mgr.Assign(buf, label, path, false) == nil {
			logger.Debug("no syntax for %s", path)
			continue
		}

		mgr.LintBuffer(ctx, buf, path, string(data), nil, func(_ lint.BufferID, instances []*lint.Instance) {
			if printDiagnostics(path, instances) {
				sawError = true
			}
		})

		mgr.Remove(buf)
	}

	if sawError {
		return 1
	}
	return 0
}

// syntaxLabelFor builds a grammar-resource label for a file so the engine's
// normal syntax resolution applies. An explicit syntax wins over the
// extension mapping.
func syntaxLabelFor(path, forced string) string {
	name := forced
	if name == "" {
		name = syntaxByExtension[strings.ToLower(filepath.Ext(path))]
	}
	if name == "" {
		return ""
	}
	return fmt.Sprintf("Packages/%s/%s.tmLanguage", name, name)
}

// syntaxByExtension maps common file extensions to syntax names.
var syntaxByExtension = map[string]string{
	".c":    "c",
	".cpp":  "c++",
	".css":  "css",
	".go":   "go",
	".html": "html",
	".js":   "javascript",
	".lua":  "lua",
	".md":   "markdown",
	".php":  "php",
	".pl":   "perl",
	".py":   "python",
	".rb":   "ruby",
	".rs":   "rust",
	".sh":   "shell-unix-generic",
	".ts":   "typescript",
	".yaml": "yaml",
	".yml":  "yaml",
}

// printDiagnostics writes one line per diagnostic and reports whether any
// error-severity diagnostic was seen.
func printDiagnostics(path string, instances []*lint.Instance) bool {
	type located struct {
		row, col int
		severity lint.Severity
		checker  string
		message  string
	}

	var all []located
	for _, in := range instances {
		for row, errs := range in.Errors() {
			for _, e := range errs {
				all = append(all, located{
					row:      row,
					col:      e.Col,
					severity: e.Severity,
					checker:  in.Name(),
					message:  e.Message,
				})
			}
		}
	}

	sort.Slice(all, func(i, j int) bool {
		if all[i].row != all[j].row {
			return all[i].row < all[j].row
		}
		return all[i].col < all[j].col
	})

	sawError := false
	for _, d := range all {
		if d.severity == lint.SeverityError {
			sawError = true
		}
		// 1-based for display.
		fmt.Printf("%s:%d:%d: [%s] %s (%s)\n", path, d.row+1, d.col+1, d.severity, d.message, d.checker)
	}
	return sawError
}
