package main

import (
	"os"

	"github.com/baaaaaaaka/ss14-roster/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
