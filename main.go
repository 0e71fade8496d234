package main

import (
	"os"

	"github.com/litware/littui/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
