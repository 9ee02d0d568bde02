// SPDX-License-Identifier: MPL-2.0

// Package importer builds metadata documents from external sources.
//
// A Source is a path (directory, structured document, HTML page, gemspec),
// an in-memory mapping, or an in-memory gemspec. Each source is offered to the
// adapters in a fixed order (directory, structured document, hypertext,
// foreign descriptor); the first adapter that recognizes it turns it into a
// raw field mapping. Merge folds the mappings of all sources in order, later
// sources replacing earlier ones field by field, upgrades the result to the
// current schema revision and constructs a validated metadata.Document.
//
// The index file helpers (Open, Save, Lock) keep a canonical ".index" file in
// sync with the sources it was built from.
package importer
