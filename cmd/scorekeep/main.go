package main

import (
	"github.com/openarcade/scorekeep/internal/cli"
)

func main() {
	cli.Execute()
}
