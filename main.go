package main

import (
	"os"

	"github.com/acadops/secondmark/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
