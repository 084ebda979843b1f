// Command neodepends extracts entities, dependencies, and change history
// from a project across one or more commits and serializes the result in
// one of several output formats.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
