package main

import (
	"github.com/paralog-labs/paralog-cli/internal/adapters/driving/cli"
)

func main() {
	cli.Execute()
}
