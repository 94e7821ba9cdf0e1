// SPDX-License-Identifier: MPL-2.0

// Package config loads the release tool settings: the application name, the
// project paths the build reads and writes, and the git remote. Everything
// has a default matching the FFShare repository layout, so a plain checkout
// needs no config file at all.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/paulasquin/ffshare/internal/issue"
)

const (
	// AppName is the application name used in artifact names and titles.
	AppName = "FFShare"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "ffshare"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "toml"
)

// Config holds the tool settings. All paths are relative to the project
// root (the directory the tool runs in) unless absolute.
type Config struct {
	// AppName prefixes artifact names and release titles.
	AppName string `mapstructure:"app_name"`
	// GradleFile is the version declaration file.
	GradleFile string `mapstructure:"gradle_file"`
	// APKRoot is where the build tool deposits per-variant APKs.
	APKRoot string `mapstructure:"apk_root"`
	// ReleasesDir is the root for per-version output directories.
	ReleasesDir string `mapstructure:"releases_dir"`
	// ChangelogDir holds fastlane changelog files keyed by versionCode.
	ChangelogDir string `mapstructure:"changelog_dir"`
	// Remote is the git remote tags are pushed to.
	Remote string `mapstructure:"remote"`
	// WorkDir is the directory the build tool runs in; empty means the
	// current directory.
	WorkDir string `mapstructure:"work_dir"`
}

// Default returns the settings matching the FFShare repository layout.
func Default() Config {
	return Config{
		AppName:      AppName,
		GradleFile:   filepath.Join("app", "build.gradle"),
		APKRoot:      filepath.Join("app", "build", "outputs", "apk"),
		ReleasesDir:  "github_releases",
		ChangelogDir: filepath.Join("fastlane", "metadata", "android", "en-US", "changelogs"),
		Remote:       "origin",
	}
}

// configFilePathOverride is set via the --config flag.
var configFilePathOverride string

// SetConfigFilePathOverride makes Load read the given file exclusively.
func SetConfigFilePathOverride(path string) {
	configFilePathOverride = path
}

// Load resolves the configuration: defaults, then an optional config file
// (explicit --config path, else ffshare.toml in the current directory, else
// in the user config directory), then FFSHARE_* environment variables.
func Load() (*Config, error) {
	v := viper.New()

	d := Default()
	v.SetDefault("app_name", d.AppName)
	v.SetDefault("gradle_file", d.GradleFile)
	v.SetDefault("apk_root", d.APKRoot)
	v.SetDefault("releases_dir", d.ReleasesDir)
	v.SetDefault("changelog_dir", d.ChangelogDir)
	v.SetDefault("remote", d.Remote)
	v.SetDefault("work_dir", d.WorkDir)

	v.SetEnvPrefix("FFSHARE")
	v.AutomaticEnv()

	if configFilePathOverride != "" {
		v.SetConfigFile(configFilePathOverride)
		if err := v.ReadInConfig(); err != nil {
			return nil, issue.NewContext().
				WithOperation("load configuration").
				WithResource(configFilePathOverride).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Check that the file contains valid TOML").
				Wrap(err).
				Build()
		}
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType(ConfigFileExt)
		v.AddConfigPath(".")
		if userDir, err := os.UserConfigDir(); err == nil {
			v.AddConfigPath(filepath.Join(userDir, "ffshare"))
		}

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, issue.NewContext().
					WithOperation("load configuration").
					WithResource(v.ConfigFileUsed()).
					WithSuggestion("Check that the file contains valid TOML").
					Wrap(err).
					Build()
			}
			// No config file found: defaults apply.
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}
