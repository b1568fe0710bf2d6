package main

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/caarlos0/env/v11"
)

type Config struct {
	SaveDirectory     string  `env:"DOTLINE_SAVE_DIR"`
	MaxLives          int     `env:"DOTLINE_MAX_LIVES"`
	DotThreshold      float64 `env:"DOTLINE_DOT_THRESHOLD"`
	DecimateTolerance float64 `env:"DOTLINE_DECIMATE_TOLERANCE"`
	SmoothTension     float64 `env:"DOTLINE_SMOOTH_TENSION"`
	LogFile           string  `env:"DOTLINE_LOG_FILE"`
	LogLevel          string  `env:"DOTLINE_LOG_LEVEL"`
	Confirmations     bool    `env:"DOTLINE_CONFIRMATIONS"`
	PlayerID          string  `env:"DOTLINE_PLAYER_ID"`
}

func defaultConfig() *Config {
	return &Config{
		SaveDirectory:     "",
		MaxLives:          defaultMaxLives,
		DotThreshold:      DefaultDotThreshold,
		DecimateTolerance: DefaultDecimateTolerance,
		SmoothTension:     DefaultSmoothTension,
		LogLevel:          "info",
		Confirmations:     true,
	}
}

// loadConfig reads ~/.dotlinerc and then applies DOTLINE_* environment
// overrides. A missing rc file is not an error.
func loadConfig() (*Config, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		homeDir = ""
	}
	rcPath := ""
	if homeDir != "" {
		rcPath = filepath.Join(homeDir, ".dotlinerc")
	}
	return loadConfigFrom(rcPath, homeDir)
}

func loadConfigFrom(rcPath, homeDir string) (*Config, error) {
	config := defaultConfig()

	if rcPath != "" {
		file, err := os.Open(rcPath)
		if err == nil {
			parseRC(config, file, homeDir)
			file.Close()
		}
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	config.SaveDirectory = expandPath(config.SaveDirectory, homeDir)
	config.normalize()
	return config, nil
}

func parseRC(config *Config, file *os.File, homeDir string) {
	scanner := bufio.NewScanner(file)
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

		switch strings.ToLower(key) {
		case "savedirectory", "save_directory", "savedir":
			config.SaveDirectory = expandPath(value, homeDir)
		case "maxlives", "max_lives", "lives":
			if n, err := strconv.Atoi(value); err == nil {
				config.MaxLives = n
			}
		case "dotthreshold", "dot_threshold":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				config.DotThreshold = f
			}
		case "decimatetolerance", "decimate_tolerance":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				config.DecimateTolerance = f
			}
		case "smoothtension", "smooth_tension":
			if f, err := strconv.ParseFloat(value, 64); err == nil {
				config.SmoothTension = f
			}
		case "logfile", "log_file":
			config.LogFile = expandPath(value, homeDir)
		case "loglevel", "log_level":
			config.LogLevel = value
		case "confirmations", "confirm":
			config.Confirmations = strings.ToLower(value) == "true"
		case "playerid", "player_id":
			config.PlayerID = value
		}
	}
}

func expandPath(value, homeDir string) string {
	if value == "" {
		return value
	}
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

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	if c.MaxLives <= 0 {
		c.MaxLives = defaultMaxLives
	}
	if c.DotThreshold <= 0 {
		c.DotThreshold = DefaultDotThreshold
	}
	if c.DecimateTolerance < 0 {
		c.DecimateTolerance = DefaultDecimateTolerance
	}
	if c.SmoothTension < 0 {
		c.SmoothTension = DefaultSmoothTension
	}
}

func (c *Config) GetSavePath(filename string) string {
	if c.SaveDirectory == "" {
		return filename
	}
	os.MkdirAll(c.SaveDirectory, 0755)
	return filepath.Join(c.SaveDirectory, filename)
}
