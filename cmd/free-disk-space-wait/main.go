// Command free-disk-space-wait waits for the background disk cleanup and
// prints its log. It is "freedisk wait" as a standalone executable.
package main

import (
	"os"

	"github.com/psantana5/freedisk/cmd/freedisk/cmd"
)

func main() {
	os.Exit(cmd.ExecuteAs("wait", os.Args[1:]))
}
