// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package config loads the embedder's TOML configuration.
package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/gogpu/layerhost/windowing"
)

// Config is the full configuration file.
type Config struct {
	Surface  Surface  `toml:"surface"`
	Backends Backends `toml:"backends"`
	Log      Log      `toml:"log"`
}

// Surface configures the layer surface and how it reports to the engine.
type Surface struct {
	// Namespace identifies the surface to the compositor.
	Namespace string `toml:"namespace"`

	// Layer is one of background, bottom, top, overlay.
	Layer string `toml:"layer"`

	// Anchors lists anchored edges: top, bottom, left, right. Empty
	// anchors every edge.
	Anchors []string `toml:"anchors"`

	// Width and Height request a size; zero lets the compositor decide.
	Width  uint32 `toml:"width"`
	Height uint32 `toml:"height"`

	// ExclusiveZone reserves space along the anchored edge.
	ExclusiveZone int32 `toml:"exclusive_zone"`

	// Margin is the gap between anchored edges and the surface.
	Margin Margin `toml:"margin"`

	// Keyboard is one of none, exclusive, on-demand.
	Keyboard string `toml:"keyboard"`

	// PixelRatio is reported with every metrics event.
	PixelRatio float64 `toml:"pixel_ratio"`
}

// Margin mirrors windowing.Margin for decoding.
type Margin struct {
	Top    int32 `toml:"top"`
	Right  int32 `toml:"right"`
	Bottom int32 `toml:"bottom"`
	Left   int32 `toml:"left"`
}

// Backends pins specific backend names; empty means best available.
type Backends struct {
	Engine    string `toml:"engine"`
	GPU       string `toml:"gpu"`
	Windowing string `toml:"windowing"`
}

// Log configures the zap logger.
type Log struct {
	// Level is one of debug, info, warn, error.
	Level string `toml:"level"`

	// Development switches to the human-oriented console encoding.
	Development bool `toml:"development"`
}

// Default returns the configuration used when no file is given: a
// background-layer surface stretched across the output, on-demand
// keyboard focus, pixel ratio 1.0.
func Default() *Config {
	return &Config{
		Surface: Surface{
			Namespace:  "layerhost",
			Layer:      "background",
			Keyboard:   "on-demand",
			PixelRatio: 1.0,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads a TOML file over the defaults. Keys the file omits keep
// their default values.
func Load(path string) (*Config, error) {
	cfg := Default()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("config: unknown key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Options converts the surface section into windowing options.
func (s Surface) Options() (windowing.SurfaceOptions, error) {
	opts := windowing.SurfaceOptions{
		Namespace: s.Namespace,
		Width:     s.Width,
		Height:    s.Height,

		ExclusiveZone: s.ExclusiveZone,
	}
	opts.Margin = windowing.Margin{
		Top:    s.Margin.Top,
		Right:  s.Margin.Right,
		Bottom: s.Margin.Bottom,
		Left:   s.Margin.Left,
	}

	switch s.Layer {
	case "background":
		opts.Layer = windowing.LayerBackground
	case "bottom":
		opts.Layer = windowing.LayerBottom
	case "top":
		opts.Layer = windowing.LayerTop
	case "overlay":
		opts.Layer = windowing.LayerOverlay
	default:
		return opts, fmt.Errorf("config: unknown layer %q", s.Layer)
	}

	if len(s.Anchors) == 0 {
		opts.Anchor = windowing.AnchorAll
	}
	for _, a := range s.Anchors {
		switch a {
		case "top":
			opts.Anchor |= windowing.AnchorTop
		case "bottom":
			opts.Anchor |= windowing.AnchorBottom
		case "left":
			opts.Anchor |= windowing.AnchorLeft
		case "right":
			opts.Anchor |= windowing.AnchorRight
		default:
			return opts, fmt.Errorf("config: unknown anchor %q", a)
		}
	}

	switch s.Keyboard {
	case "none", "":
		opts.Keyboard = windowing.KeyboardNone
	case "exclusive":
		opts.Keyboard = windowing.KeyboardExclusive
	case "on-demand":
		opts.Keyboard = windowing.KeyboardOnDemand
	default:
		return opts, fmt.Errorf("config: unknown keyboard mode %q", s.Keyboard)
	}

	return opts, nil
}

// Build constructs the process logger.
func (l Log) Build() (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("config: log level: %w", err)
	}

	var zcfg zap.Config
	if l.Development {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)
	return zcfg.Build()
}
