package main

import (
	"os"

	"github.com/viant/certify/cmd/certify/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
