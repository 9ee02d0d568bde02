// SPDX-License-Identifier: MPL-2.0

// Package revision upgrades raw metadata mappings written against older
// schema revisions to the current one.
//
// Every revision the tool understands is registered at start-up with the
// field list of its schema and a pure step function that rewrites a mapping
// of that revision into the shape of the next. Upconvert applies the steps in
// order until the mapping reaches the current revision.
package revision
