package main

import (
	"os"

	"github.com/TFMV/nodecanvas/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
