package main

import (
	"os"

	"github.com/hachiman-oct/cbtkit/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
