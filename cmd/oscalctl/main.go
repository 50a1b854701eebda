package main

import "oscalctl/internal/cli"

func main() {
	cli.Execute()
}
