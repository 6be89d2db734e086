package main

import "laborfetcher/internal/cli"

func main() {
	cli.Execute()
}
