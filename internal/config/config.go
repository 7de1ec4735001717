// Package config loads alpha.toml, the toolchain's build and debug
// settings, the same way internal/tqw reads the teacher's world-file
// header: unmarshal raw bytes into a plain struct with github.com/BurntSushi/toml,
// then fill any key the file omits from Default().
package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

// Build holds the object/linker settings used by internal/compile.Compile.
type Build struct {
	Dir        string   `toml:"dir"`
	Linker     string   `toml:"linker"`
	LinkerArgs []string `toml:"linker-args"`
}

// Debug holds settings for the -d/--debug trace.
type Debug struct {
	Trace bool `toml:"trace"`
}

// Config is the full contents of an alpha.toml file.
type Config struct {
	Build Build `toml:"build"`
	Debug Debug `toml:"debug"`
}

// Default returns the configuration used when no alpha.toml is present.
func Default() Config {
	return Config{
		Build: Build{
			Dir:        "build",
			Linker:     "musl-gcc",
			LinkerArgs: []string{"-static"},
		},
	}
}

// Load reads and parses the TOML file at path, filling any key it doesn't
// set with Default's value.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	// Parse into a zero-valued overlay first so we can tell which fields
	// the file actually set, then merge non-zero values over the default.
	var fromFile Config
	if err := toml.Unmarshal(data, &fromFile); err != nil {
		return Config{}, err
	}

	if fromFile.Build.Dir != "" {
		cfg.Build.Dir = fromFile.Build.Dir
	}
	if fromFile.Build.Linker != "" {
		cfg.Build.Linker = fromFile.Build.Linker
	}
	if fromFile.Build.LinkerArgs != nil {
		cfg.Build.LinkerArgs = fromFile.Build.LinkerArgs
	}
	cfg.Debug.Trace = fromFile.Debug.Trace

	return cfg, nil
}

// LoadOrDefault is Load, falling back to Default() when path does not exist
// rather than failing — alpha.toml is optional.
func LoadOrDefault(path string) (Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return Default(), nil
	}
	return Load(path)
}
