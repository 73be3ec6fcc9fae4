package main

import (
	"os"

	"github.com/ykarpov/tolmach/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
