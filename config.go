package toolup

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Config holds the download locations used to build products. Every field
// has a default; a TOML file can override any of them, which is mainly
// useful behind mirrors.
type Config struct {
	Toolchain ToolchainConfig `toml:"toolchain"`
	Editor    EditorConfig    `toml:"editor"`
}

// ToolchainConfig locates the toolchain bootstrapper.
type ToolchainConfig struct {
	// URL is the fixed download location of the bootstrapper executable.
	URL string `toml:"url"`
}

// EditorConfig locates the editor release.
type EditorConfig struct {
	Owner  string `toml:"owner"`
	Repo   string `toml:"repo"`
	Suffix string `toml:"suffix"` // asset name suffix for this platform
	Exe    string `toml:"exe"`    // main executable inside the install dir
}

// DefaultConfig returns the built-in download locations: the rustup
// bootstrapper for 64-bit Windows and the Helix editor release archive.
func DefaultConfig() Config {
	return Config{
		Toolchain: ToolchainConfig{
			URL: "https://static.rust-lang.org/rustup/dist/x86_64-pc-windows-msvc/rustup-init.exe",
		},
		Editor: EditorConfig{
			Owner:  "helix-editor",
			Repo:   "helix",
			Suffix: "x86_64-windows.zip",
			Exe:    "hx.exe",
		},
	}
}

// LoadConfig reads a TOML override file on top of the defaults. An empty
// path returns the defaults unchanged.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
