// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/dotindex/dotindex/pkg/metadata"
)

const (
	// ColorSchemeAuto follows the terminal background.
	ColorSchemeAuto  ColorScheme = "auto"
	ColorSchemeDark  ColorScheme = "dark"
	ColorSchemeLight ColorScheme = "light"
)

var (
	// ErrInvalidColorScheme is wrapped by InvalidColorSchemeError.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidIndexFile is wrapped by InvalidIndexFileError.
	ErrInvalidIndexFile = errors.New("invalid index file")
	// ErrInvalidUIConfig is wrapped by InvalidUIConfigError.
	ErrInvalidUIConfig = errors.New("invalid UI config")
	// ErrInvalidConfig is wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme picks the glamour style used for rendered help.
	ColorScheme string

	// InvalidColorSchemeError reports an unknown ColorScheme.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// IndexFile is the path of the canonical document, relative to the
	// project root unless absolute.
	IndexFile string

	// InvalidIndexFileError is returned when an IndexFile is empty or
	// whitespace-only.
	InvalidIndexFileError struct {
		Value IndexFile
	}

	// InvalidUIConfigError collects UIConfig field errors.
	InvalidUIConfigError struct {
		FieldErrors []error
	}

	// InvalidConfigError collects Config field errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the user configuration of the index command.
	Config struct {
		// IndexFile names the canonical document written by lock
		IndexFile IndexFile `json:"index_file" mapstructure:"index_file"`
		// Format is the default output format of show
		Format metadata.Format `json:"format" mapstructure:"format"`
		// DefaultSources are merged when no index file exists and none are given
		DefaultSources []string `json:"default_sources" mapstructure:"default_sources"`
		UI             UIConfig `json:"ui" mapstructure:"ui"`

		path string
	}

	// UIConfig holds terminal presentation settings.
	UIConfig struct {
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose is the default of --verbose
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

func (c ColorScheme) String() string { return string(c) }

// IsValid accepts auto, dark and light.
func (c ColorScheme) IsValid() (bool, []error) {
	switch c {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: c}}
	}
}

func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

func (f IndexFile) String() string { return string(f) }

// IsValid returns whether the IndexFile is non-empty.
func (f IndexFile) IsValid() (bool, []error) {
	if strings.TrimSpace(string(f)) == "" {
		return false, []error{&InvalidIndexFileError{Value: f}}
	}
	return true, nil
}

func (e *InvalidIndexFileError) Error() string {
	return fmt.Sprintf("invalid index file %q: must not be empty", e.Value)
}

func (e *InvalidIndexFileError) Unwrap() error { return ErrInvalidIndexFile }

// IsValid checks the color scheme.
func (c UIConfig) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidUIConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidUIConfigError) Error() string {
	return fmt.Sprintf("invalid UI config: %d field error(s)", len(e.FieldErrors))
}

func (e *InvalidUIConfigError) Unwrap() error { return ErrInvalidUIConfig }

// IsValid checks every field and collects all failures.
func (c *Config) IsValid() (bool, []error) {
	var errs []error
	if valid, fieldErrs := c.IndexFile.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Format.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

func (e *InvalidConfigError) Unwrap() error { return ErrInvalidConfig }

// Path returns the config file the configuration was loaded from, or "" when
// only defaults and environment overrides apply.
func (c *Config) Path() string { return c.path }

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		IndexFile:      ".index",
		Format:         metadata.FormatYAML,
		DefaultSources: []string{},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}
