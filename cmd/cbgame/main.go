package main

import (
	"github.com/mcoot/cowsbulls-go/internal/cli"
)

func main() {
	cli.Execute()
}
