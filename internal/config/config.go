// Package config defines the mirror configuration: one FTP server plus
// the set of remote folders to monitor. It handles loading from YAML,
// normalization, validation and live reload.
package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"os"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	"ftpmirror/internal/fileutil"
)

// Server describes the FTP endpoint and the local root files mirror into.
type Server struct {
	Host      string `mapstructure:"host" json:"host"`
	Port      int    `mapstructure:"port" json:"port"`
	Username  string `mapstructure:"username" json:"username"`
	Password  string `mapstructure:"password" json:"-"`
	LocalPath string `mapstructure:"local_path" json:"local_path"`
}

// Addr returns the host:port dial address.
func (s Server) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Folder is one monitored remote directory with its own poll schedule.
type Folder struct {
	ID              string `mapstructure:"id" json:"id"`
	Name            string `mapstructure:"name" json:"name"`
	RemotePath      string `mapstructure:"remote_path" json:"remote_path"`
	IntervalMinutes int    `mapstructure:"interval_minutes" json:"interval_minutes"`
}

// Config is the complete mirror configuration.
type Config struct {
	Server  Server   `mapstructure:"server" json:"server"`
	Folders []Folder `mapstructure:"folders" json:"folders"`
}

// Normalize cleans up values that have an unambiguous canonical form:
// the host loses any scheme prefix and trailing path, a missing port
// becomes the FTP default, names are trimmed and missing folder IDs are
// generated. Call it before Validate.
func (c *Config) Normalize() {
	c.Server.Host = normalizeHost(c.Server.Host)
	if c.Server.Port == 0 {
		c.Server.Port = 21
	}
	c.Server.Username = strings.TrimSpace(c.Server.Username)
	c.Server.LocalPath = strings.TrimSpace(c.Server.LocalPath)

	for i := range c.Folders {
		f := &c.Folders[i]
		f.ID = strings.TrimSpace(f.ID)
		f.Name = strings.TrimSpace(f.Name)
		f.RemotePath = strings.TrimSpace(f.RemotePath)
		if f.ID == "" {
			f.ID = newFolderID()
		}
	}
}

// Validate checks the configuration as a whole. It reports the first
// problem found; callers must not apply a config that fails validation.
func (c *Config) Validate() error {
	if c.Server.Host == "" {
		return fmt.Errorf("server host is required")
	}
	if strings.ContainsAny(c.Server.Host, "/ ") {
		return fmt.Errorf("server host %q is not a valid host name", c.Server.Host)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d is out of range", c.Server.Port)
	}
	if c.Server.Username == "" {
		return fmt.Errorf("server username is required")
	}
	if c.Server.LocalPath == "" {
		return fmt.Errorf("server local_path is required")
	}
	if len(c.Folders) == 0 {
		return fmt.Errorf("at least one folder is required")
	}

	seenIDs := make(map[string]bool, len(c.Folders))
	seenNames := make(map[string]bool, len(c.Folders))
	for i, f := range c.Folders {
		if f.Name == "" {
			return fmt.Errorf("folder %d: name is required", i+1)
		}
		if !fileutil.IsSafeName(f.Name) {
			return fmt.Errorf("folder %q: name is not usable as a directory name", f.Name)
		}
		if f.RemotePath == "" {
			return fmt.Errorf("folder %q: remote_path is required", f.Name)
		}
		if !strings.HasPrefix(f.RemotePath, "/") {
			return fmt.Errorf("folder %q: remote_path %q must be absolute", f.Name, f.RemotePath)
		}
		if f.IntervalMinutes < 1 {
			return fmt.Errorf("folder %q: interval_minutes must be at least 1", f.Name)
		}
		if seenIDs[f.ID] {
			return fmt.Errorf("folder %q: duplicate id %q", f.Name, f.ID)
		}
		if seenNames[f.Name] {
			return fmt.Errorf("folder %q: duplicate name", f.Name)
		}
		seenIDs[f.ID] = true
		seenNames[f.Name] = true
	}
	return nil
}

// FindFolder looks a folder up by ID first, then by name.
func (c *Config) FindFolder(key string) (Folder, bool) {
	for _, f := range c.Folders {
		if f.ID == key {
			return f, true
		}
	}
	for _, f := range c.Folders {
		if f.Name == key {
			return f, true
		}
	}
	return Folder{}, false
}

// Load reads, normalizes and validates the configuration at path.
// An empty password falls back to the FTPMIRROR_PASSWORD environment
// variable so credentials can stay out of the file.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := v.UnmarshalKey("server", &cfg.Server); err != nil {
		return nil, fmt.Errorf("failed to parse server section: %w", err)
	}
	if err := v.UnmarshalKey("folders", &cfg.Folders); err != nil {
		return nil, fmt.Errorf("failed to parse folders section: %w", err)
	}

	if cfg.Server.Password == "" {
		cfg.Server.Password = os.Getenv("FTPMIRROR_PASSWORD")
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Watch re-reads the file at path whenever it changes on disk and hands
// the result to handler. Invalid updates arrive as a nil Config with the
// validation error; the caller decides whether to keep the old one.
func Watch(path string, handler func(*Config, error)) {
	v := viper.New()
	v.SetConfigFile(path)
	v.OnConfigChange(func(fsnotify.Event) {
		handler(Load(path))
	})
	v.WatchConfig()
}

// normalizeHost strips a scheme prefix and anything after the host part.
func normalizeHost(host string) string {
	host = strings.TrimSpace(host)
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.Index(host, "/"); i >= 0 {
		host = host[:i]
	}
	return host
}

// newFolderID generates a short random identifier for folders declared
// without one.
func newFolderID() string {
	b := make([]byte, 4)
	rand.Read(b)
	return hex.EncodeToString(b)
}
