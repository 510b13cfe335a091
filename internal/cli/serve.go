package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/ocasazza/graphlayouts/pkg/api"
	"github.com/ocasazza/graphlayouts/pkg/cache"
	"github.com/ocasazza/graphlayouts/pkg/pipeline"
	"github.com/ocasazza/graphlayouts/pkg/store"
)

// defaultConfigFile is looked up in the working directory when --config is
// not given.
const defaultConfigFile = "graphlayouts.toml"

// serveConfig is the TOML configuration for the serve command.
//
//	[server]
//	addr = "127.0.0.1:3000"
//	allowed_origins = ["https://example.com"]
//
//	[store]
//	backend = "file"
//	dir = "graphs"
//
//	[cache]
//	disabled = false
//	dir = ""
type serveConfig struct {
	Server api.Config   `toml:"server"`
	Store  store.Config `toml:"store"`
	Cache  cacheConfig  `toml:"cache"`
}

// cacheConfig configures the server-side layout cache. An empty Dir uses
// the XDG cache directory.
type cacheConfig struct {
	Disabled bool   `toml:"disabled"`
	Dir      string `toml:"dir"`
}

// loadServeConfig reads the TOML config at path. An empty path falls back
// to graphlayouts.toml in the working directory, and defaults are returned
// if that does not exist. An explicit path that cannot be read is an error.
func loadServeConfig(path string) (serveConfig, error) {
	var cfg serveConfig
	explicit := path != ""
	if path == "" {
		path = defaultConfigFile
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return cfg, nil
		}
		return cfg, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		cfgPath  string
		storeDir string
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the graph layout HTTP API",
		Long: `Run the graph layout HTTP API.

Serves graph storage, upload, and layout endpoints under /api. The
server is configured through graphlayouts.toml (see --config) with
[server], [store], and [cache] sections; flags override the file.

The default store keeps graphs in memory; configure the file, redis,
mongo, or neo4j backend for persistence.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), cfgPath, addr, storeDir, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default "+api.DefaultAddr+")")
	cmd.Flags().StringVar(&cfgPath, "config", "", "config file (default: "+defaultConfigFile+" if present)")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "shortcut for the file store backend at this directory")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the layout cache")

	return cmd
}

// runServe builds the store, runner, and server from config and serves
// until the context is cancelled.
func (c *CLI) runServe(ctx context.Context, cfgPath, addr, storeDir string, noCache bool) error {
	cfg, err := loadServeConfig(cfgPath)
	if err != nil {
		return err
	}
	if addr != "" {
		cfg.Server.Addr = addr
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = api.DefaultAddr
	}
	if storeDir != "" {
		cfg.Store.Backend = store.BackendFile
		cfg.Store.Dir = storeDir
	}
	if noCache {
		cfg.Cache.Disabled = true
	}

	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return fmt.Errorf("initialize store: %w", err)
	}
	defer st.Close()

	layoutCache, err := newServeCache(cfg.Cache)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	srv := api.NewServer(st, runner, c.Logger, cfg.Server)

	backend := cfg.Store.Backend
	if backend == "" {
		backend = store.BackendMemory
	}
	printInfo("Serving the layout API on %s", StyleLink.Render("http://"+cfg.Server.Addr))
	printDetail("store: %s · cache: %s", backend, cacheLabel(cfg.Cache))
	printDetail("GET/POST /api/graphs · POST /api/layout · POST /api/upload")
	printNewline()

	return srv.ListenAndServe(ctx)
}

// newServeCache builds the layout cache from the [cache] config section.
func newServeCache(cfg cacheConfig) (cache.Cache, error) {
	if cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// cacheLabel describes the cache config for the startup banner.
func cacheLabel(cfg cacheConfig) string {
	if cfg.Disabled {
		return "disabled"
	}
	if cfg.Dir != "" {
		return cfg.Dir
	}
	return "default"
}
