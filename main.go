package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/tsadkit/tsadrun/cmd"
	"github.com/tsadkit/tsadrun/internal/launcher"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		// The entry point's own exit status passes through unchanged;
		// its output already went to our stdout/stderr.
		var exitErr *launcher.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
