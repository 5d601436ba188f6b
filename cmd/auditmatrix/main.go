package main

import (
	"fmt"
	"os"

	"github.com/ppiankov/auditmatrix/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		code := cli.ExitCode(err)
		// Verification failures have already been printed line by line
		if code != cli.ExitFailure {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
