// Command jxl decodes JPEG XL codestreams from the command line: a
// decode subcommand that writes a PNG, and an info subcommand that
// prints a codestream's image header without decoding any frame data.
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
