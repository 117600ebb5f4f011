package main

import (
	"os"

	"github.com/psantana5/freedisk/cmd/freedisk/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
