package main

import (
	"os"

	"github.com/msto63/oil/cmd/oil/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
