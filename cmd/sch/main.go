// Command sch is an interactive top-level for the interpreter in
// github.com/TheFausap/sch/interp: it loads any files named on the command
// line, then drops into a read-eval-print loop over standard input.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/TheFausap/sch/interp"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "usage: %s [file ...]\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	i, err := interp.New(interp.Options{})
	if err != nil {
		fmt.Fprintf(os.Stderr, "*** %s\n", err)
		os.Exit(1)
	}

	for _, path := range flag.Args() {
		if err := i.Load(path); err != nil {
			fmt.Fprintf(os.Stderr, "*** %s\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Welcome to sch. Use ctrl-c to exit.")
	if err := i.REPL(os.Stdin, "> "); err != nil {
		os.Exit(1)
	}
}
