package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/studyshare/internal/platform"
	"github.com/aretw0/studyshare/pkg/core"
)

// app carries the global flags and the state shared by subcommands.
type app struct {
	verbose    bool
	logFormat  string
	dir        string
	adapter    string
	debugState bool

	root       string
	cfg        platform.Config
	logger     *slog.Logger
	components []introspection.Component
}

// newRootCmd represents the base command when called without any subcommands.
func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "studyshare",
		Short: "A local catalog for study notes",
		Long: `StudyShare keeps your study notes (photos and PDF pages) in a local catalog.
Notes carry a title, a subject class and tags, and can be searched, filtered and sorted.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !a.debugState {
				return nil
			}
			return a.printState(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")
	flags.StringVar(&a.logFormat, "log-format", "text", "Log format: text or json")
	flags.StringVarP(&a.dir, "dir", "C", "", "Catalog root (default: nearest directory with .studyshare or studyshare.yaml)")
	flags.StringVar(&a.adapter, "adapter", "", "Storage adapter: fs, sqlite or memory")
	flags.BoolVar(&a.debugState, "debug-state", false, "Print component state as JSON to stderr after the command")

	rootCmd.AddCommand(
		newInitCmd(a),
		newAddCmd(a),
		newListCmd(a),
		newShowCmd(a),
		newRmCmd(a),
		newDownloadCmd(a),
		newImportCmd(a),
		newClassesCmd(),
		newExportCmd(a),
		newWatchCmd(a),
		newVersionCmd(),
	)
	return rootCmd
}

// setup resolves the catalog root, loads its configuration and installs the logger.
func (a *app) setup(cmd *cobra.Command) error {
	root := a.dir
	if root == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("failed to get working directory: %w", err)
		}
		root = cwd
		if found, err := platform.FindRoot(cwd); err == nil {
			root = found
		}
	}
	a.root = root

	cfg, err := platform.LoadConfig(root)
	if err != nil {
		return err
	}
	if a.adapter != "" {
		cfg.Adapter = a.adapter
	}
	a.cfg = cfg

	level, err := cfg.Level()
	if err != nil {
		return err
	}
	if a.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch a.logFormat {
	case "json":
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case "text", "":
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return fmt.Errorf("unknown log format %q", a.logFormat)
	}
	a.logger = slog.New(handler)
	slog.SetDefault(a.logger)
	return nil
}

// catalog is an opened backend with its loaded collection.
type catalog struct {
	backend core.Backend
	notes   *core.Collection
}

// Close releases backend resources.
func (c *catalog) Close() error {
	if closer, ok := c.backend.(core.Closer); ok {
		return closer.Close()
	}
	return nil
}

// open initializes the configured backend and loads the collection.
// Without create, a filesystem catalog must already have been initialized.
func (a *app) open(ctx context.Context, create bool, extra ...platform.Option) (*catalog, error) {
	opts := append(a.cfg.Options(), platform.WithLogger(a.logger))
	if !create {
		opts = append(opts, platform.WithAutoInit(false))
	}
	opts = append(opts, extra...)

	backend, err := platform.Init(ctx, a.root, opts...)
	if err != nil {
		if !create && errors.Is(err, core.ErrStorage) {
			return nil, fmt.Errorf("%w (run 'studyshare init' first?)", err)
		}
		return nil, err
	}

	notes, err := platform.Open(ctx, backend, opts...)
	if err != nil {
		c := &catalog{backend: backend}
		_ = c.Close()
		return nil, err
	}

	a.components = append(a.components, notes)
	if comp, ok := backend.(introspection.Component); ok {
		a.components = append(a.components, comp)
	}
	return &catalog{backend: backend, notes: notes}, nil
}

// printState writes the state of every opened component as JSON.
func (a *app) printState(cmd *cobra.Command) error {
	states := make(map[string]any, len(a.components))
	for _, comp := range a.components {
		if in, ok := comp.(introspection.Introspectable); ok {
			states[comp.ComponentType()] = in.State()
		}
	}
	encoder := json.NewEncoder(cmd.ErrOrStderr())
	encoder.SetIndent("", "  ")
	return encoder.Encode(states)
}
