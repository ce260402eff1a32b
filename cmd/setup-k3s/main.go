package main

import (
	"github.com/NVIDIA/setup-k3s/pkg/cli"
)

func main() {
	cli.Execute()
}
