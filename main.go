// Package main is the entry point for the tqec detector-annotation CLI.
package main

import "github.com/QCHackers/tqec-sub002/cmd"

func main() {
	cmd.Execute()
}
