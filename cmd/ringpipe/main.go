// Command ringpipe copies its inputs to one output through a fixed-size
// ring buffer, one read(2) and one write(2) at a time.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
