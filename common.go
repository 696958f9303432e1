package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"github.com/lmittmann/tint"
	_ "github.com/mattn/go-sqlite3"
)

const (
	configFileName = ".gcaltimetable.toml"
	dbFileName     = ".gcaltimetable.db"

	defaultMarker   = "source: timetable-script"
	defaultTimezone = "Asia/Kolkata"
	defaultPageSize = 2500
)

type CalDAVConfig struct {
	ServerURL   string `toml:"server_url"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
	CalendarURL string `toml:"calendar_url"`
}

type Config struct {
	ClientID        string       `toml:"client_id"`
	ClientSecret    string       `toml:"client_secret"`
	Account         string       `toml:"account"`
	Provider        string       `toml:"provider"`
	CalendarID      string       `toml:"calendar_id"`
	Timezone        string       `toml:"timezone"`
	Marker          string       `toml:"marker"`
	Timetable       string       `toml:"timetable"`
	PageSize        int          `toml:"page_size"`
	SweepAllPages   bool         `toml:"sweep_all_pages"`
	VerbosityLevel  int          `toml:"verbosity_level"`
	MetricsTextfile string       `toml:"metrics_textfile"`
	CalDAV          CalDAVConfig `toml:"caldav"`
}

var verbosityLevel = 2
var configDir string

// Normalize fills zero values with defaults.
func (c *Config) Normalize() {
	if c.Account == "" {
		c.Account = "default"
	}
	if c.Provider == "" {
		c.Provider = providerGoogle
	}
	if c.CalendarID == "" {
		if c.Provider == providerCalDAV {
			c.CalendarID = c.CalDAV.CalendarURL
		} else {
			c.CalendarID = "primary"
		}
	}
	if c.Timezone == "" {
		c.Timezone = defaultTimezone
	}
	if c.Marker == "" {
		c.Marker = defaultMarker
	}
	if c.Timetable == "" {
		c.Timetable = "timetable.json"
	}
	if c.PageSize <= 0 {
		c.PageSize = defaultPageSize
	}
}

func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}

func readConfig(filename string) (*Config, error) {
	// Try first current dir, then `$HOME/.config/gcaltimetable/`
	data, err := os.ReadFile(filename)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		home := filepath.Join(os.Getenv("HOME"), ".config", "gcaltimetable")
		data, err = os.ReadFile(filepath.Join(home, filename))
		if err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		if err == nil {
			configDir = home
		}
	}

	config := &Config{}
	if data == nil {
		slog.Warn("no config file found, using defaults", "file", filename)
		config.VerbosityLevel = verbosityLevel
	} else {
		md, err := toml.Decode(string(data), config)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", filename, err)
		}
		if !md.IsDefined("verbosity_level") {
			config.VerbosityLevel = verbosityLevel
		}
	}
	applyEnv(config)
	config.Normalize()

	verbosityLevel = config.VerbosityLevel

	return config, nil
}

// applyEnv loads .env (if any) and lets the environment override secrets.
func applyEnv(config *Config) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("can't load .env", "error", err)
	}
	for name, dst := range map[string]*string{
		"GCALTIMETABLE_CLIENT_ID":       &config.ClientID,
		"GCALTIMETABLE_CLIENT_SECRET":   &config.ClientSecret,
		"GCALTIMETABLE_CALDAV_PASSWORD": &config.CalDAV.Password,
	} {
		if v := os.Getenv(name); v != "" {
			slog.Debug("env override", "name", name)
			*dst = v
		}
	}
}

func openDB(filename string) (*sql.DB, error) {
	// Keep the database next to the config file when it came from $HOME
	path := filename
	if configDir != "" {
		path = filepath.Join(configDir, filename)
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if err := dbInit(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init %s: %w", path, err)
	}
	return db, nil
}

func setupLogging(verbosity int) {
	level := slog.LevelWarn
	switch {
	case verbosity >= 4:
		level = slog.LevelDebug
	case verbosity >= 2:
		level = slog.LevelInfo
	}
	slog.SetDefault(slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func printVerbosely(verbosity int, format string, a ...interface{}) {
	// Print only if verbosity is higher than verbosityLevel
	// verbosityLevel is set in the config file
	// 0 - no output, other than critical errors
	// 1 - batch summaries
	// 2 - progress lines
	// 3 - report on every event created/deleted
	// 4 - report on events skipped by the sweep
	// 5 - report everything
	if verbosity <= verbosityLevel {
		fmt.Printf(format, a...)
	}
}
