// Package cli implements the graphlayouts command-line interface.
//
// The CLI wraps the layout pipeline and the HTTP API into commands for
// computing layouts on graph files, converting between interchange formats,
// generating sample graphs, serving the REST API, and browsing stored
// graphs. Commands share a single charmbracelet logger and the file-backed
// layout cache under the XDG cache directory.
//
// # Commands
//
// The main commands are:
//   - layout: compute node positions for a graph file
//   - convert: translate a graph between json, csv, dot and svg
//   - generate: build seeded sample graphs
//   - serve: run the HTTP API server
//   - browse: interactively inspect stored graphs
//   - cache: manage the layout cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger
// lives on the CLI struct and is handed down to the pipeline and server.
package cli

import (
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/buildinfo"
	"github.com/ocasazza/graphlayouts/pkg/cache"
	"github.com/ocasazza/graphlayouts/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphlayouts"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "graphlayouts",
		Short:        "Graphlayouts computes force-directed layouts for compound graphs",
		Long:         `Graphlayouts is a CLI tool for laying out compound graphs: it positions nodes with force-directed, concentric, circle, and layered algorithms, converts between graph interchange formats, and serves the layout engine over HTTP.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.generateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	cache, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cache, nil, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/graphlayouts/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
