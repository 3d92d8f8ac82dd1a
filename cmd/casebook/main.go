package main

import (
	"fmt"
	"io"
	"os"
)

var (
	exit = os.Exit

	// openedService is closed by fatal; os.Exit skips deferred calls.
	openedService io.Closer
)

func main() {
	Execute()
}

func fatal(msg string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	if openedService != nil {
		_ = openedService.Close()
		openedService = nil
	}
	exit(1)
}
