package project

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/BurntSushi/toml"
)

// ManifestName is the file that marks a project root.
const ManifestName = "skarn.toml"

// Defaults applied when skarn.toml leaves the [check] section out.
const (
	DefaultMaxDiagnostics = 100
	// DefaultJobs of 0 means "pick at use site" (runtime.NumCPU).
	DefaultJobs = 0
)

// Manifest is a loaded skarn.toml together with its location.
type Manifest struct {
	Path   string // absolute path to skarn.toml
	Root   string // directory containing it
	Config Config
}

// Config mirrors the skarn.toml layout.
type Config struct {
	Package PackageConfig `toml:"package"`
	Check   CheckConfig   `toml:"check"`
}

type PackageConfig struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

type CheckConfig struct {
	MaxDiagnostics int `toml:"max_diagnostics"`
	Jobs           int `toml:"jobs"`
}

// IsValidPackageName reports whether name is usable as [package].name:
// ASCII, letter or '_' first, letters/digits/'_'/'-' after.
func IsValidPackageName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r > unicode.MaxASCII {
			return false
		}
		if i == 0 && r != '_' && !unicode.IsLetter(r) {
			return false
		}
		if i > 0 && r != '_' && r != '-' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// LoadManifest walks up from startDir looking for skarn.toml and parses
// it. ok is false when no manifest exists anywhere above startDir; that
// is not an error, checks then run on bare defaults.
func LoadManifest(startDir string) (*Manifest, bool, error) {
	manifestPath, ok, err := FindSkarnToml(startDir)
	if err != nil || !ok {
		return nil, ok, err
	}
	cfg, err := LoadConfig(manifestPath)
	if err != nil {
		return nil, true, err
	}
	return &Manifest{
		Path:   manifestPath,
		Root:   filepath.Dir(manifestPath),
		Config: cfg,
	}, true, nil
}

// LoadConfig parses a skarn.toml at path and applies [check] defaults.
// Поля, отсутствующие в файле, отличаем от нулевых через meta.IsDefined.
func LoadConfig(path string) (Config, error) {
	var cfg Config
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if !meta.IsDefined("package") {
		return Config{}, fmt.Errorf("%s: missing [package]", path)
	}
	if !meta.IsDefined("package", "name") || strings.TrimSpace(cfg.Package.Name) == "" {
		return Config{}, fmt.Errorf("%s: missing [package].name", path)
	}
	if !IsValidPackageName(cfg.Package.Name) {
		return Config{}, fmt.Errorf("%s: invalid [package].name %q", path, cfg.Package.Name)
	}
	if meta.IsDefined("check", "max_diagnostics") {
		if cfg.Check.MaxDiagnostics <= 0 {
			return Config{}, fmt.Errorf("%s: [check].max_diagnostics must be positive, got %d", path, cfg.Check.MaxDiagnostics)
		}
	} else {
		cfg.Check.MaxDiagnostics = DefaultMaxDiagnostics
	}
	if meta.IsDefined("check", "jobs") {
		if cfg.Check.Jobs < 0 {
			return Config{}, fmt.Errorf("%s: [check].jobs must not be negative, got %d", path, cfg.Check.Jobs)
		}
	} else {
		cfg.Check.Jobs = DefaultJobs
	}
	return cfg, nil
}
