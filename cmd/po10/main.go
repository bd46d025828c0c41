package main

import "github.com/pfrederiksen/powerof10/internal/cli"

func main() {
	cli.Execute()
}
