package main

import (
	"os"

	"github.com/example/vaultmig/internal/cli"
)

func main() {
	if err := cli.FixLinksCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
