package main

import (
	"fmt"
	"os"

	"github.com/danmuck/pgpextract/internal/logging"
)

func main() {
	logging.ConfigureRuntime()
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "pgpextract: %v\n", err)
		os.Exit(1)
	}
}
