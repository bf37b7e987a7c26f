// Package config loads rosaserver.yaml.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// EnvPath overrides the config file location.
const EnvPath = "ROSASERVER_CONFIG"

// DefaultPath is relative to the server's working directory.
const DefaultPath = "rosaserver.yaml"

type Config struct {
	Version     string `yaml:"version"`
	EntryScript string `yaml:"entry_script"`
	LogLevel    string `yaml:"log_level"`

	HTTP   HTTP   `yaml:"http"`
	Child  Child  `yaml:"child"`
	Worker Worker `yaml:"worker"`
	SQLite SQLite `yaml:"sqlite"`
	Crash  Crash  `yaml:"crash"`
	Hook   Hook   `yaml:"hook"`
}

type HTTP struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"user_agent"`
}

type Child struct {
	Runner string `yaml:"runner"`
	Limits Limits `yaml:"limits"`
}

// Limits are applied to every child process at start. Zero means unlimited.
type Limits struct {
	CPUSeconds  uint64 `yaml:"cpu_seconds"`
	MemoryBytes uint64 `yaml:"memory_bytes"`
	FileBytes   uint64 `yaml:"file_bytes"`
}

type Worker struct {
	Queue int `yaml:"queue"`
}

type SQLite struct {
	BusyTimeout  time.Duration `yaml:"busy_timeout"`
	QueryTimeout time.Duration `yaml:"query_timeout"`
}

type Crash struct {
	ReportFile string `yaml:"report_file"`
}

type Hook struct {
	Debug bool `yaml:"debug"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	return Config{
		Version:     "24c",
		EntryScript: "main/init.lua",
		LogLevel:    "info",
		HTTP: HTTP{
			Timeout:   10 * time.Second,
			UserAgent: "rosaserver",
		},
		Child: Child{
			Runner: "./rosa-child",
		},
		Worker: Worker{Queue: 64},
		SQLite: SQLite{
			BusyTimeout:  5 * time.Second,
			QueryTimeout: 5 * time.Second,
		},
		Crash: Crash{ReportFile: "rs_crash_report.txt"},
	}
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	c := Default()
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return c, nil
	}
	if err != nil {
		return c, err
	}
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	if err := c.validate(); err != nil {
		return c, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// LoadDefault loads from $ROSASERVER_CONFIG or ./rosaserver.yaml.
func LoadDefault() (Config, error) {
	path := os.Getenv(EnvPath)
	if path == "" {
		path = DefaultPath
	}
	return Load(path)
}

func (c Config) validate() error {
	switch {
	case c.Version == "":
		return errors.New("version is empty")
	case c.EntryScript == "":
		return errors.New("entry_script is empty")
	case c.HTTP.Timeout <= 0:
		return errors.New("http.timeout must be positive")
	case c.Worker.Queue <= 0:
		return errors.New("worker.queue must be positive")
	case c.Crash.ReportFile == "":
		return errors.New("crash.report_file is empty")
	}
	return nil
}
