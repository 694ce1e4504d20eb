// Package main is the entry point for the strum CLI.
package main

import "strum.dev/pkg/strum/cmd"

func main() {
	cmd.Execute()
}
