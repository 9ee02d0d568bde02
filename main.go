// SPDX-License-Identifier: MPL-2.0

// Command index maintains a project's canonical .index metadata file.
package main

import cmd "github.com/dotindex/dotindex/cmd/index"

func main() {
	cmd.Execute()
}
