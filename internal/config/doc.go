// SPDX-License-Identifier: MPL-2.0

// Package config handles application configuration using Viper with CUE as the file format.
//
// Configuration is read from ./config.cue or, failing that, from the user config
// directory (~/.config/dotindex/config.cue or the XDG equivalent on Linux,
// ~/Library/Application Support/dotindex/config.cue on macOS, %APPDATA%\dotindex\config.cue
// on Windows). DOTINDEX_* environment variables override file values.
//
// Configuration files are validated against an embedded CUE schema (config_schema.cue).
package config
