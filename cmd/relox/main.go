package main

import (
	"os"

	"github.com/themifi/relox/cmd/relox/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
