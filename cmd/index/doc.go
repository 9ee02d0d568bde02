// SPDX-License-Identifier: MPL-2.0

// Package cmd contains the CLI commands for index.
//
// The root command locks and shows the project's .index document; the
// using and adding subcommands change the sources it is merged from;
// generate renders starter files from the document; config manages the
// CLI configuration file.
package cmd
