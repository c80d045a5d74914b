// Command typebridge compiles typed schema declarations and filters into
// TypeQL.
package main

import (
	"os"

	"github.com/roach88/typebridge/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
