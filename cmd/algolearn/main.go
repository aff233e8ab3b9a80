// Package main provides the algolearn CLI for browsing curricula, searching
// content, and tracking notes and progress.
package main

import "os"

func main() {
	os.Exit(NewApp().Run(os.Args))
}
