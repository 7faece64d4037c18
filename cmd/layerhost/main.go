// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Command layerhost runs an embedded engine session on a layer-shell
// surface.
//
// Usage:
//
//	layerhost [flags] <assets-dir> <icu-data-file>
//
// The two positional arguments locate the engine's asset bundle and ICU
// data; both are required. Backends for the engine binding, the GL
// display, and the windowing client are picked by priority from their
// registries, or pinned in the configuration file's [backends] table.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/layerhost/config"
	"github.com/gogpu/layerhost/embedder"
	"github.com/gogpu/layerhost/engine"
	"github.com/gogpu/layerhost/gpu"
	"github.com/gogpu/layerhost/windowing"

	// Self-registering backends.
	_ "github.com/gogpu/layerhost/backend/egl"
	_ "github.com/gogpu/layerhost/windowing/headless"
)

func main() {
	configPath := flag.String("config", "", "path to a TOML configuration file")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"usage: %s [flags] <assets-dir> <icu-data-file>\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, flag.Arg(0), flag.Arg(1)); err != nil {
		fmt.Fprintln(os.Stderr, "layerhost:", err)
		os.Exit(1)
	}
}

func run(configPath, assetsPath, icuDataPath string) error {
	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	log, err := cfg.Log.Build()
	if err != nil {
		return err
	}
	defer log.Sync()

	if _, err := os.Stat(assetsPath); err != nil {
		return fmt.Errorf("assets directory: %w", err)
	}
	if _, err := os.Stat(icuDataPath); err != nil {
		return fmt.Errorf("icu data file: %w", err)
	}

	client, err := connectWindowing(cfg.Backends.Windowing)
	if err != nil {
		return err
	}
	defer client.Close()

	surfaceOpts, err := cfg.Surface.Options()
	if err != nil {
		return err
	}
	surface, err := client.CreateLayerSurface(surfaceOpts)
	if err != nil {
		return fmt.Errorf("create layer surface: %w", err)
	}

	display, err := openDisplay(cfg.Backends.GPU, client.NativeDisplay())
	if err != nil {
		return err
	}
	contexts, err := gpu.NewContextManager(display, surface.NativeWindow(), log.Named("gpu"))
	if err != nil {
		return err
	}

	emb := embedder.New(embedder.Options{
		Client:     client,
		Surface:    surface,
		Contexts:   contexts,
		PixelRatio: cfg.Surface.PixelRatio,
		Logger:     log,
	})
	defer func() {
		if err := emb.Close(); err != nil {
			log.Warn("teardown failed", zap.Error(err))
		}
	}()

	eng, err := newEngine(cfg.Backends.Engine, engine.Config{
		AssetsPath:         assetsPath,
		ICUDataPath:        icuDataPath,
		Renderer:           emb,
		Compositor:         emb,
		PlatformTaskRunner: emb,
		LogSink:            emb.EngineLog,
	})
	if err != nil {
		return fmt.Errorf("initialize engine: %w", err)
	}
	emb.AttachEngine(eng)
	if err := emb.CreateImplicitView(); err != nil {
		return err
	}

	log.Info("session starting",
		zap.String("assets", assetsPath),
		zap.Strings("windowing", windowing.Available()),
		zap.Strings("gpu", gpu.Available()))

	ctx, stop := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return emb.Run(ctx) })
	if err := g.Wait(); err != nil {
		log.Error("session failed", zap.Error(err))
		return err
	}
	log.Info("session ended")
	return nil
}

func connectWindowing(name string) (windowing.Client, error) {
	if name != "" {
		return windowing.ConnectByName(name)
	}
	return windowing.Connect()
}

func openDisplay(name string, nativeDisplay uintptr) (gpu.Display, error) {
	if name != "" {
		return gpu.OpenByName(name, nativeDisplay)
	}
	return gpu.Open(nativeDisplay)
}

func newEngine(name string, cfg engine.Config) (engine.Engine, error) {
	if name != "" {
		return engine.NewByName(name, cfg)
	}
	return engine.New(cfg)
}
