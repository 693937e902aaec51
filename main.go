// Package main is the entry point for the eplswing CLI tool, which compares
// two Premier League seasons and narrates each team's points swing.
package main

import "github.com/pable/eplswing/cmd"

func main() {
	cmd.Execute()
}
