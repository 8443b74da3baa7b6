// Package feeders reads container configuration from YAML and TOML files
// and from prefixed environment variables.
package feeders

import "errors"

// Feeder populates a pointer to a struct from some source.
type Feeder interface {
	Feed(structure any) error
}

// Feeder errors
var (
	ErrEnvInvalidStructure     = errors.New("env: invalid structure")
	ErrEnvEmptyPrefixAndSuffix = errors.New("env: prefix or suffix cannot be empty")
	ErrEnvFieldCannotBeSet     = errors.New("env: field cannot be set")
)
