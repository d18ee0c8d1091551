/*
jsmixer (Entry Point)

jsmixer compresses JavaScript: it drops whitespace and comments and renames
identifiers that start with an underscore to short names. The identifier map
is persisted, so a name keeps its short form across files and runs.
*/
package main

import (
	"github.com/whit3rabbit/jsmixer/cmd/jsmixer/cmd"
)

// main is the entry point of the application.
func main() {
	cmd.Execute()
}
