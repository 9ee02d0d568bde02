// SPDX-License-Identifier: MPL-2.0

// Package metadata implements the project metadata document: its value types
// (versions, constraints, authors, copyrights, requirements, resources and
// repositories), the ordered attribute schema, and the Document model that
// validates every assignment through the schema.
//
// A Document never stores an unchecked value. Setters accept the convenient
// input shapes produced by hand-written field files and decoded documents
// (strings, mappings with string or symbol-style keys, two-element
// [name, details] lists, a single item where a list is expected) and normalize
// them into one canonical shape. Canonical renders that shape as a mapping
// keyed by the schema field names.
package metadata
