package main

import (
	"os"

	"github.com/nixpig/superchroot/internal/cli"
)

func main() {
	os.Exit(cli.Execute(os.Args[1:], os.Stderr))
}
