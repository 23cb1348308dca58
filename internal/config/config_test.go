package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// validConfig returns a minimal configuration that passes validation.
func validConfig() Config {
	return Config{
		Server: Server{
			Host:      "ftp.example.com",
			Port:      21,
			Username:  "mirror",
			Password:  "secret",
			LocalPath: "/var/data/mirror",
		},
		Folders: []Folder{
			{ID: "f1", Name: "invoices", RemotePath: "/outgoing/invoices", IntervalMinutes: 5},
		},
	}
}

func TestNormalizeHost(t *testing.T) {
	tests := []struct {
		name string
		host string
		want string
	}{
		{name: "plain host", host: "ftp.example.com", want: "ftp.example.com"},
		{name: "scheme stripped", host: "ftp://ftp.example.com", want: "ftp.example.com"},
		{name: "other scheme stripped", host: "ftps://host.example", want: "host.example"},
		{name: "trailing path stripped", host: "ftp.example.com/pub/files", want: "ftp.example.com"},
		{name: "scheme and path", host: "ftp://ftp.example.com/pub", want: "ftp.example.com"},
		{name: "surrounding spaces", host: "  ftp.example.com  ", want: "ftp.example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Server.Host = tt.host
			cfg.Normalize()
			if cfg.Server.Host != tt.want {
				t.Errorf("normalized host = %q, want %q", cfg.Server.Host, tt.want)
			}
		})
	}
}

func TestNormalizeDefaults(t *testing.T) {
	cfg := validConfig()
	cfg.Server.Port = 0
	cfg.Folders[0].ID = ""
	cfg.Folders[0].Name = "  invoices  "

	cfg.Normalize()

	if cfg.Server.Port != 21 {
		t.Errorf("default port = %d, want 21", cfg.Server.Port)
	}
	if cfg.Folders[0].Name != "invoices" {
		t.Errorf("trimmed name = %q, want %q", cfg.Folders[0].Name, "invoices")
	}
	if len(cfg.Folders[0].ID) != 8 {
		t.Errorf("generated folder ID %q, want 8 hex chars", cfg.Folders[0].ID)
	}
}

func TestGeneratedIDsAreUnique(t *testing.T) {
	cfg := validConfig()
	cfg.Folders = []Folder{
		{Name: "a", RemotePath: "/a", IntervalMinutes: 1},
		{Name: "b", RemotePath: "/b", IntervalMinutes: 1},
	}
	cfg.Normalize()

	if cfg.Folders[0].ID == cfg.Folders[1].ID {
		t.Errorf("generated duplicate folder IDs: %q", cfg.Folders[0].ID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string // empty means valid
	}{
		{
			name:   "valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "missing host",
			mutate:  func(c *Config) { c.Server.Host = "" },
			wantErr: "host is required",
		},
		{
			name:    "port out of range",
			mutate:  func(c *Config) { c.Server.Port = 70000 },
			wantErr: "out of range",
		},
		{
			name:    "missing username",
			mutate:  func(c *Config) { c.Server.Username = "" },
			wantErr: "username is required",
		},
		{
			name:    "missing local path",
			mutate:  func(c *Config) { c.Server.LocalPath = "" },
			wantErr: "local_path is required",
		},
		{
			name:    "no folders",
			mutate:  func(c *Config) { c.Folders = nil },
			wantErr: "at least one folder",
		},
		{
			name:    "empty folder name",
			mutate:  func(c *Config) { c.Folders[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name:    "folder name with separator",
			mutate:  func(c *Config) { c.Folders[0].Name = "in/voices" },
			wantErr: "not usable as a directory name",
		},
		{
			name:    "folder name traversal",
			mutate:  func(c *Config) { c.Folders[0].Name = ".." },
			wantErr: "not usable as a directory name",
		},
		{
			name:    "missing remote path",
			mutate:  func(c *Config) { c.Folders[0].RemotePath = "" },
			wantErr: "remote_path is required",
		},
		{
			name:    "relative remote path",
			mutate:  func(c *Config) { c.Folders[0].RemotePath = "outgoing/invoices" },
			wantErr: "must be absolute",
		},
		{
			name:    "zero interval",
			mutate:  func(c *Config) { c.Folders[0].IntervalMinutes = 0 },
			wantErr: "at least 1",
		},
		{
			name: "duplicate folder id",
			mutate: func(c *Config) {
				c.Folders = append(c.Folders, Folder{
					ID: "f1", Name: "other", RemotePath: "/other", IntervalMinutes: 1,
				})
			},
			wantErr: "duplicate id",
		},
		{
			name: "duplicate folder name",
			mutate: func(c *Config) {
				c.Folders = append(c.Folders, Folder{
					ID: "f2", Name: "invoices", RemotePath: "/other", IntervalMinutes: 1,
				})
			},
			wantErr: "duplicate name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate() error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("Validate() expected error containing %q, got nil", tt.wantErr)
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestFindFolder(t *testing.T) {
	cfg := validConfig()
	cfg.Folders = append(cfg.Folders, Folder{
		ID: "f2", Name: "reports", RemotePath: "/reports", IntervalMinutes: 10,
	})

	if f, ok := cfg.FindFolder("f2"); !ok || f.Name != "reports" {
		t.Errorf("FindFolder(\"f2\") = %+v, %v", f, ok)
	}
	if f, ok := cfg.FindFolder("invoices"); !ok || f.ID != "f1" {
		t.Errorf("FindFolder(\"invoices\") = %+v, %v", f, ok)
	}
	if _, ok := cfg.FindFolder("missing"); ok {
		t.Error("FindFolder(\"missing\") = ok, want false")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ftpmirror.yaml")
	content := `server:
  host: ftp://ftp.example.com/pub
  username: mirror
  password: secret
  local_path: /var/data/mirror
folders:
  - name: invoices
    remote_path: /outgoing/invoices
    interval_minutes: 5
  - id: rep
    name: reports
    remote_path: /outgoing/reports
    interval_minutes: 30
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Host != "ftp.example.com" {
		t.Errorf("host = %q, want %q", cfg.Server.Host, "ftp.example.com")
	}
	if cfg.Server.Port != 21 {
		t.Errorf("port = %d, want default 21", cfg.Server.Port)
	}
	if cfg.Server.Addr() != "ftp.example.com:21" {
		t.Errorf("Addr() = %q", cfg.Server.Addr())
	}
	if len(cfg.Folders) != 2 {
		t.Fatalf("folders = %d, want 2", len(cfg.Folders))
	}
	if cfg.Folders[0].ID == "" {
		t.Error("first folder did not get a generated ID")
	}
	if cfg.Folders[1].ID != "rep" {
		t.Errorf("second folder ID = %q, want %q", cfg.Folders[1].ID, "rep")
	}
}

func TestLoadInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.yaml")
	content := `server:
  host: ftp.example.com
  username: mirror
  local_path: /var/data
folders:
  - name: bad
    remote_path: relative/path
    interval_minutes: 5
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "must be absolute") {
		t.Errorf("Load() error = %v, want remote_path validation failure", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load() on missing file expected error, got nil")
	}
}

func TestStore(t *testing.T) {
	s := NewStore()
	if s.Current() != nil {
		t.Fatal("new store should have no current config")
	}

	cfg := validConfig()
	s.Set(&cfg)
	if got := s.Current(); got == nil || got.Server.Host != "ftp.example.com" {
		t.Errorf("Current() = %+v", got)
	}

	s.Clear()
	if s.Current() != nil {
		t.Error("Current() after Clear() should be nil")
	}
}
