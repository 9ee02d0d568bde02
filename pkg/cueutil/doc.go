// SPDX-License-Identifier: MPL-2.0

// Package cueutil holds the CUE compile/validate/decode helpers shared by the
// configuration loader and the CUE metadata sources.
//
// Schema-bound input (the CLI configuration) goes through ParseAndDecode:
//
//	//go:embed config_schema.cue
//	var schema string
//
//	result, err := cueutil.ParseAndDecode[Config]([]byte(schema), data, "#Config",
//	    cueutil.WithFilename("config.cue"))
//
// Free-form metadata documents written in CUE go through DecodeValue, which
// yields the same plain maps, lists and scalars a YAML or JSON decoder would.
// Both report errors as "<file>: <path>: <message>".
package cueutil
