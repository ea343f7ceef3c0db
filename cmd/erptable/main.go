package main

import (
	"os"

	"github.com/portal-erp/erptable/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
