// Command free-disk-space-start launches the disk cleanup in the background.
// It is "freedisk start" as a standalone, argument-free executable.
package main

import (
	"os"

	"github.com/psantana5/freedisk/cmd/freedisk/cmd"
)

func main() {
	os.Exit(cmd.ExecuteAs("start", os.Args[1:]))
}
