package main

import (
	"os"

	"github.com/flowboardhq/flowboard/internal/flowboard"
)

func main() {
	os.Exit(flowboard.Run(os.Args[1:], os.Stdout, os.Stderr, os.Environ()))
}
