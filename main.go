// SPDX-License-Identifier: MPL-2.0

package main

import cmd "github.com/ownclt/ownclt/cmd/ownclt"

func main() {
	cmd.Execute()
}
