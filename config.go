package main

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"labelforge/internal/templates"
)

type Config struct {
	SaveDirectory string
	StartMenu     bool
	Confirmations bool
	Store         string // "file" or "sqlite"
	Database      string
	Format        string // "json" or "cbor"
	LabelSize     string
	HistoryLimit  int
	Nudge         float64
	LogFile       string
	LogLevel      string
	FontDir       string
	ImageDir      string
	Layout        string // print sheet layout
	Printer       string // printer profile id
	Credits       int    // export credits; negative means unlimited
}

func defaultConfig() *Config {
	return &Config{
		SaveDirectory: "",
		StartMenu:     true,
		Confirmations: true,
		Store:         "file",
		Format:        "json",
		LabelSize:     templates.DefaultSizeKey,
		HistoryLimit:  0,
		Nudge:         1,
		LogLevel:      "info",
		Layout:        "single",
		Printer:       "dymo",
		Credits:       -1,
	}
}

// loadConfig reads path (default ~/.labelforgerc), then applies
// LABELFORGE_* environment overrides.
func loadConfig(path string) *Config {
	config := defaultConfig()

	homeDir, _ := os.UserHomeDir()
	if path == "" && homeDir != "" {
		path = filepath.Join(homeDir, ".labelforgerc")
	}
	if path != "" {
		if file, err := os.Open(path); err == nil {
			parseConfig(file, homeDir, config)
			file.Close()
		}
	}
	applyEnv(config, homeDir)
	return config
}

func parseConfig(r io.Reader, homeDir string, config *Config) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			continue
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])
		config.set(strings.ToLower(key), value, homeDir)
	}
}

func (c *Config) set(key, value, homeDir string) {
	switch key {
	case "savedirectory", "save_directory", "savedir":
		c.SaveDirectory = expandPath(value, homeDir)
	case "startmenu", "start_menu":
		c.StartMenu = strings.ToLower(value) == "true"
	case "confirmations", "confirm":
		c.Confirmations = strings.ToLower(value) == "true"
	case "store":
		if v := strings.ToLower(value); v == "file" || v == "sqlite" {
			c.Store = v
		}
	case "database", "db":
		c.Database = expandPath(value, homeDir)
	case "format":
		if v := strings.ToLower(value); v == "json" || v == "cbor" {
			c.Format = v
		}
	case "labelsize", "label_size", "size":
		if _, ok := templates.SizeFor(value); ok {
			c.LabelSize = value
		}
	case "historylimit", "history_limit":
		if n, err := strconv.Atoi(value); err == nil && n >= 0 {
			c.HistoryLimit = n
		}
	case "nudge":
		if f, err := strconv.ParseFloat(value, 64); err == nil && f > 0 {
			c.Nudge = f
		}
	case "logfile", "log_file":
		c.LogFile = expandPath(value, homeDir)
	case "loglevel", "log_level":
		c.LogLevel = strings.ToLower(value)
	case "fontdir", "font_dir":
		c.FontDir = expandPath(value, homeDir)
	case "imagedir", "image_dir":
		c.ImageDir = expandPath(value, homeDir)
	case "layout":
		c.Layout = strings.ToLower(value)
	case "printer":
		c.Printer = strings.ToLower(value)
	case "credits":
		if n, err := strconv.Atoi(value); err == nil {
			c.Credits = n
		}
	}
}

var envKeys = []string{
	"savedirectory", "startmenu", "confirmations", "store", "database",
	"format", "labelsize", "historylimit", "nudge", "logfile", "loglevel",
	"fontdir", "imagedir", "layout", "printer", "credits",
}

func applyEnv(c *Config, homeDir string) {
	for _, key := range envKeys {
		if value := getenv("LABELFORGE_"+strings.ToUpper(key), ""); value != "" {
			c.set(key, value, homeDir)
		}
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func expandPath(value, homeDir string) string {
	if strings.HasPrefix(value, "~") && homeDir != "" {
		value = filepath.Join(homeDir, strings.TrimPrefix(value, "~"))
	}
	if !filepath.IsAbs(value) {
		if absPath, err := filepath.Abs(value); err == nil {
			value = absPath
		}
	}
	return value
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}

// DatabasePath is the SQLite file, defaulting to labels.db in the save
// directory.
func (c *Config) DatabasePath() string {
	if c.Database != "" {
		return c.Database
	}
	return c.GetSavePath("labels.db")
}

// LabelDir is where the file store keeps labels.
func (c *Config) LabelDir() string {
	return c.GetSavePath("labels")
}

func (c *Config) LogPath() string {
	if c.LogFile != "" {
		return c.LogFile
	}
	return c.GetSavePath("labelforge.log")
}
