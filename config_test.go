package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfig(t *testing.T) {
	rc := `
# labelforge settings
savedirectory = ~/labels
startmenu = false
confirmations = FALSE
store = sqlite
format = CBOR
labelsize = 4x2
historylimit = 25
nudge = 2.5
loglevel = Debug
printer = Brother
layout = 6-up
credits = 3
unknown = ignored
not a setting
`
	cfg := defaultConfig()
	parseConfig(strings.NewReader(rc), "/home/ada", cfg)

	assert.Equal(t, filepath.Join("/home/ada", "labels"), cfg.SaveDirectory)
	assert.False(t, cfg.StartMenu)
	assert.False(t, cfg.Confirmations)
	assert.Equal(t, "sqlite", cfg.Store)
	assert.Equal(t, "cbor", cfg.Format)
	assert.Equal(t, "4x2", cfg.LabelSize)
	assert.Equal(t, 25, cfg.HistoryLimit)
	assert.Equal(t, 2.5, cfg.Nudge)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "brother", cfg.Printer)
	assert.Equal(t, "6-up", cfg.Layout)
	assert.Equal(t, 3, cfg.Credits)
}

func TestParseConfigRejectsBadValues(t *testing.T) {
	rc := `
store = postgres
format = xml
labelsize = 9x9
historylimit = -1
nudge = 0
`
	cfg := defaultConfig()
	parseConfig(strings.NewReader(rc), "", cfg)
	def := defaultConfig()

	assert.Equal(t, def.Store, cfg.Store)
	assert.Equal(t, def.Format, cfg.Format)
	assert.Equal(t, def.LabelSize, cfg.LabelSize)
	assert.Equal(t, def.HistoryLimit, cfg.HistoryLimit)
	assert.Equal(t, def.Nudge, cfg.Nudge)
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rc")
	require.NoError(t, os.WriteFile(path, []byte("format = json\nstore = file\n"), 0o644))

	t.Setenv("LABELFORGE_FORMAT", "cbor")
	t.Setenv("LABELFORGE_CREDITS", "0")
	t.Setenv("LABELFORGE_SAVEDIRECTORY", dir)

	cfg := loadConfig(path)
	assert.Equal(t, "cbor", cfg.Format)
	assert.Equal(t, "file", cfg.Store)
	assert.Equal(t, 0, cfg.Credits)
	assert.Equal(t, dir, cfg.SaveDirectory)
}

func TestConfigPaths(t *testing.T) {
	dir := t.TempDir()
	cfg := defaultConfig()
	cfg.SaveDirectory = dir

	assert.Equal(t, filepath.Join(dir, "labels.db"), cfg.DatabasePath())
	assert.Equal(t, filepath.Join(dir, "labels"), cfg.LabelDir())
	assert.Equal(t, filepath.Join(dir, "labelforge.log"), cfg.LogPath())

	cfg.Database = "/tmp/other.db"
	cfg.LogFile = "/tmp/other.log"
	assert.Equal(t, "/tmp/other.db", cfg.DatabasePath())
	assert.Equal(t, "/tmp/other.log", cfg.LogPath())

	cfg.SaveDirectory = ""
	assert.Equal(t, "out.png", cfg.GetSavePath("out.png"))
}
