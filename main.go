// SPDX-License-Identifier: MPL-2.0

package main

import cmd "tablec/cmd/tablec"

func main() {
	cmd.Execute()
}
