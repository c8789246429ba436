// Package main provides the skillmap CLI application.
// skillmap manages the lifecycle of the skills-graph PostgreSQL database.
package main

import "github.com/edugraph/skillmap/cmd"

func main() {
	cmd.Execute()
}
