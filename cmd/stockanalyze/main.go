package main

import (
	"os"

	"stockanalyze/cmd/stockanalyze/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
