package main

import (
	"os"

	"github.com/cheshire-cat-ai/catctl/internal/cmd"
)

func main() {
	os.Exit(cmd.Main(os.Args))
}
