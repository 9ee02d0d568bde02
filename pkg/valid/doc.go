// SPDX-License-Identifier: MPL-2.0

// Package valid provides the stateless field validators used by the metadata
// document model.
//
// Every validator has the shape func(raw any, field string) (T, error). A
// validator either returns the value in its checked Go type or a
// *ValidationError naming the field and the offending value. Validators never
// coerce out-of-shape input: an integer given where a single-line string is
// expected is rejected, not formatted.
//
// Container helpers (AsHash, AsList) normalize the map and slice shapes produced
// by the YAML, TOML, JSON and CUE decoders into map[string]any and []any so the
// rest of the model only deals with one representation.
package valid
