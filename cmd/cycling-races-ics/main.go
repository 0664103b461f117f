package main

import "github.com/pfrederiksen/cycling-races-ics/internal/cli"

func main() {
	cli.Execute()
}
