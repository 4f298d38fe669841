package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tissue.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "Tissue", cfg.Title)
	assert.Equal(t, SurfaceWebview, cfg.Surface)
	assert.True(t, cfg.Debug)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
title: Adder
width: 640
surface: browser
addr: 127.0.0.1:8420
debug: false
stylesheet: style.css
`)

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Adder", cfg.Title)
	assert.Equal(t, 640, cfg.Width)
	assert.Equal(t, 600, cfg.Height)
	assert.Equal(t, SurfaceBrowser, cfg.Surface)
	assert.Equal(t, "127.0.0.1:8420", cfg.Addr)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "style.css", cfg.Stylesheet)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "title: Adder\nwidth: 640\n")
	t.Setenv("TISSUE_TITLE", "Env Title")
	t.Setenv("TISSUE_WIDTH", "1024")
	t.Setenv("TISSUE_HEIGHT", "not-a-number")
	t.Setenv("TISSUE_DEBUG", "false")
	t.Setenv("TISSUE_SURFACE", "browser")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "Env Title", cfg.Title)
	assert.Equal(t, 1024, cfg.Width)
	assert.Equal(t, 600, cfg.Height, "unparsable values keep the previous setting")
	assert.False(t, cfg.Debug)
	assert.Equal(t, SurfaceBrowser, cfg.Surface)
}

func TestFromEnv(t *testing.T) {
	path := writeConfig(t, "title: From File\n")
	t.Setenv("TISSUE_CONFIG", path)

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "From File", cfg.Title)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorContains(t, err, "read config")

	_, err = Load(writeConfig(t, "title: [unclosed"))
	assert.ErrorContains(t, err, "parse config")

	_, err = Load(writeConfig(t, "surface: gtk\n"))
	assert.ErrorContains(t, err, "unknown surface")

	_, err = Load(writeConfig(t, "width: 0\n"))
	assert.ErrorContains(t, err, "window size")
}
