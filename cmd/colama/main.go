// Package main is the entry point for colama: the menu bar item by default,
// plus CLI subcommands.
package main

import (
	"log"
	"os"

	"github.com/lvonsydow/colama/internal/cli"
)

func main() {
	log.SetPrefix("[colama] ")
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
