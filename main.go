package main

import "github.com/xll-gen/webtoc/cmd"

// main is the entry point of the webtoc CLI application.
// It executes the root command which parses flags and emits the array literal.
func main() {
	cmd.Execute()
}
