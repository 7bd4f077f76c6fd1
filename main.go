// Command dumpcsv converts a MySQL dump file into per-table CSV files.
package main

import (
	"os"

	"github.com/leengari/dumpcsv/pkg/cli"
)

func main() {
	os.Exit(cli.Execute())
}
