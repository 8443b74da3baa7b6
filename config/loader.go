// Package config loads container settings from feeders and keeps them in
// sync with a file on disk.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/GoCodeAlone/locator"
	"github.com/GoCodeAlone/locator/feeders"
)

// Static errors for configuration package
var (
	ErrUnsupportedFileType = errors.New("unsupported config file type")
	ErrNoPath              = errors.New("config path is empty")
)

// EnvPrefix is the prefix used by DefaultFeeders for environment overrides.
const EnvPrefix = "LOCATOR"

// Load feeds cfg from every feeder in order, applies defaults and
// validates the result. Later feeders override earlier ones.
func Load(cfg *locator.Config, fs ...feeders.Feeder) error {
	if cfg == nil {
		return locator.ErrConfigNil
	}
	for _, f := range fs {
		if err := f.Feed(cfg); err != nil {
			return fmt.Errorf("config feeder %T: %w", f, err)
		}
	}
	return locator.ValidateConfig(cfg)
}

// FileFeeder picks a feeder from the file extension.
func FileFeeder(path string) (feeders.Feeder, error) {
	if path == "" {
		return nil, ErrNoPath
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return feeders.NewYamlFeeder(path), nil
	case ".toml":
		return feeders.NewTomlFeeder(path), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFileType, path)
	}
}

// DefaultFeeders returns the file feeder for path, when path is set,
// followed by the LOCATOR_ environment feeder.
func DefaultFeeders(path string) ([]feeders.Feeder, error) {
	var fs []feeders.Feeder
	if path != "" {
		f, err := FileFeeder(path)
		if err != nil {
			return nil, err
		}
		fs = append(fs, f)
	}
	return append(fs, feeders.NewAffixedEnvFeeder(EnvPrefix, "")), nil
}

// LoadFile is Load with DefaultFeeders. An empty path reads only the
// environment.
func LoadFile(path string) (*locator.Config, error) {
	fs, err := DefaultFeeders(path)
	if err != nil {
		return nil, err
	}
	cfg := &locator.Config{}
	if err := Load(cfg, fs...); err != nil {
		return nil, err
	}
	return cfg, nil
}
