// Command inn tokenizes, parses, formats and compiles inn programs.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	root := newRootCmd(newApp(os.Stdin, os.Stdout, os.Stderr))
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
