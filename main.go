package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/nstehr/vimy/vimy-mapgen/catalog"
	"github.com/nstehr/vimy/vimy-mapgen/config"
	"github.com/nstehr/vimy/vimy-mapgen/mapgen"
	"github.com/nstehr/vimy/vimy-mapgen/rules"
	"github.com/nstehr/vimy/vimy-mapgen/session"
)

const banner = `
██╗   ██╗██╗███╗   ███╗██╗   ██╗
██║   ██║██║████╗ ████║╚██╗ ██╔╝
██║   ██║██║██╔████╔██║ ╚████╔╝
╚██╗ ██╔╝██║██║╚██╔╝██║  ╚██╔╝
 ╚████╔╝ ██║██║ ╚═╝ ██║   ██║
  ╚═══╝  ╚═╝╚═╝     ╚═╝   ╚═╝

Symmetric Map Generation for Red Alert`

func main() {
	cfg, err := config.Load(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(2)
	}

	logger, logCloser, err := config.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(2)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	fmt.Println(banner)

	slog.Info("starting vimy-mapgen")

	if err := run(cfg, logger); err != nil {
		slog.Error("vimy-mapgen stopped", "error", err)
		logCloser.Close()
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *slog.Logger) error {
	cat := catalog.Temperate()
	if cfg.Catalog != "" {
		var err error
		if cat, err = catalog.LoadFile(cfg.Catalog); err != nil {
			return err
		}
	}
	slog.Info("catalog ready", "tileset", cat.Name(), "templates", len(cat.Templates()))

	validator, err := rules.NewValidator(rules.CompileLimits(cfg.Limits))
	if err != nil {
		return fmt.Errorf("compile rules: %w", err)
	}
	validator.Logger = logger.With("component", "rules")
	gen := &mapgen.Generator{Catalog: cat, Rules: validator, Logger: logger}
	// Bad defaults would fail every request; refuse to start instead.
	if err := gen.Validate(cfg.Params); err != nil {
		return fmt.Errorf("default params: %w", err)
	}

	cache, err := session.NewCache(cfg.Cache.MaxMaps, cfg.Cache.TTL)
	if err != nil {
		return err
	}
	defer cache.Close()

	// Unix sockets leave behind a file on unclean shutdown; remove it so we can rebind.
	if err := os.RemoveAll(cfg.Socket); err != nil {
		return fmt.Errorf("clean up socket %s: %w", cfg.Socket, err)
	}

	listener, err := net.Listen("unix", cfg.Socket)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Socket, err)
	}
	defer os.Remove(cfg.Socket)

	slog.Info("listening on domain socket", "path", cfg.Socket)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	s := &session.Server{
		Generator: gen,
		Defaults:  cfg.Params,
		Cache:     cache,
		GridCols:  8,
		GridRows:  8,
		Logger:    logger,
	}
	err = s.Serve(ctx, listener)
	slog.Info("shutting down")
	return err
}
