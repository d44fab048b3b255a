package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teslashibe/go-cinematic/pkg/easing"
	"github.com/teslashibe/go-cinematic/pkg/movement"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	assert.Empty(t, cfg.Validate())
	assert.Equal(t, DefaultMaxQueueSize, cfg.MaxQueueSize)
	assert.Equal(t, movement.DefaultMaxDuration, cfg.MaxDuration)
	assert.Equal(t, string(easing.Default), cfg.DefaultEasing)
	assert.Equal(t, movement.DefaultTransitionThreshold, cfg.Engine().TransitionThreshold)
}

func TestLoad_YAMLOverridesDefaults(t *testing.T) {
	t.Setenv(EnvLogLevel, "")
	path := filepath.Join(t.TempDir(), "cinematic.yaml")
	data := []byte(`
listen_addr: ":9000"
viewer_url: "http://isaac:8900"
frame_rate: 30
max_duration: 45s
max_queue_size: 3
default_easing: linear
transition_threshold: 2.5
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "http://isaac:8900", cfg.ViewerURL)
	assert.Equal(t, 30, cfg.FrameRate)
	assert.Equal(t, 45*time.Second, cfg.MaxDuration)
	assert.Equal(t, 3, cfg.MaxQueueSize)

	// Untouched keys keep their defaults.
	assert.Equal(t, DefaultStatusRate, cfg.StatusRate)
	assert.Equal(t, "info", cfg.LogLevel)

	engine := cfg.Engine()
	assert.Equal(t, easing.Linear, engine.DefaultEasing)
	assert.Equal(t, 3, engine.MaxQueueSize)
	assert.Equal(t, 2.5, engine.TransitionThreshold)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cinematic.yaml")
	require.NoError(t, os.WriteFile(path, []byte("viewer_url: http://file:8900\n"), 0o644))

	t.Setenv(EnvViewerURL, "http://env:8900")
	t.Setenv(EnvFrameRate, "24")
	t.Setenv(EnvDryRun, "true")
	t.Setenv(EnvLogLevel, "debug")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://env:8900", cfg.ViewerURL)
	assert.Equal(t, 24, cfg.FrameRate)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "does not exist")

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("frame_rate: [1, 2"), 0o644))
	_, err = Load(path)
	assert.ErrorContains(t, err, "parse")

	t.Setenv(EnvFrameRate, "fast")
	_, err = Load("")
	assert.ErrorContains(t, err, EnvFrameRate)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.FrameRate = 0
	cfg.StatusRate = 0
	cfg.ViewerURL = ""
	cfg.DefaultEasing = "wobble"
	cfg.MaxQueueSize = -1
	cfg.TransitionThreshold = -1

	errs := cfg.Validate()
	assert.Len(t, errs, 6)

	cfg = Default()
	cfg.ViewerURL = ""
	cfg.DryRun = true
	assert.Empty(t, cfg.Validate())
}

func TestFrameInterval(t *testing.T) {
	cfg := Default()
	cfg.FrameRate = 50
	assert.Equal(t, 20*time.Millisecond, cfg.FrameInterval())

	cfg.FrameRate = 0
	assert.Equal(t, time.Second/DefaultFrameRate, cfg.FrameInterval())
}
