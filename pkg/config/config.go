// Package config holds the tool's own optional configuration. All
// values default to the firmware project's layout; a missing
// prebuild.toml simply means defaults.
package config

import "github.com/BurntSushi/toml"

type Config struct {
	Paths   Paths   `toml:"paths"`
	Defines Defines `toml:"defines"`
}

// Paths are resolved against the project root unless absolute.
type Paths struct {
	Config   string `toml:"config"`
	Template string `toml:"template"`
	DataDir  string `toml:"data_dir"`
	Manifest string `toml:"manifest"`
}

// Defines names the preprocessor constants injected into the native
// build. The firmware reads them to self-report its provenance.
type Defines struct {
	GitSHA    string `toml:"git_sha"`
	BuildUnix string `toml:"build_unix"`
}

var DefaultConfig = Config{
	Paths: Paths{
		Config:   "config.ini",
		Template: "config.ini.template",
		DataDir:  "data",
		Manifest: "build_info.json",
	},
	Defines: Defines{
		GitSHA:    "FIRMWARE_GIT_SHA",
		BuildUnix: "FIRMWARE_BUILD_UNIX",
	},
}

func ReadFile(filepath string, cfg *Config) error {
	_, err := toml.DecodeFile(filepath, cfg)
	return err
}
