package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	intake "github.com/goliatone/go-intake"
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [paths...]\n", filepath.Base(os.Args[0]))
		fmt.Fprintf(flag.CommandLine.Output(), "\nLint schema documents and report the ones that do not build.\n")
	}
	flag.Parse()

	paths := flag.Args()
	if len(paths) == 0 {
		paths = []string{"examples/fixtures/commit.yaml"}
	}

	ctx := context.Background()

	failed := false
	for _, path := range paths {
		s, err := intake.Load(ctx, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			failed = true
			continue
		}
		fmt.Printf("%s: ok (%d fields)\n", path, s.Len())
	}

	if failed {
		os.Exit(1)
	}
}
