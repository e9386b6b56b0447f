package main

import "findash/internal/cli"

func main() {
	cli.Execute()
}
