package main

import (
	"github.com/stigtools/tcrsim/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
