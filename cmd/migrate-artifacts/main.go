package main

import (
	"os"

	"github.com/example/vaultmig/internal/cli"
)

func main() {
	if err := cli.MigrateCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
