package main

import (
	"os"

	"github.com/eclipse-cdt/cdt-sub043/src/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
