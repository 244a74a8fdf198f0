package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/miraclx/qparas/internal/app"
)

func main() {
	runner := app.NewRunner()

	if err := runner.Run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "qparas: %v\n", err)
		if errors.Is(err, app.ErrUsage) || errors.Is(err, app.ErrMissingPath) {
			fmt.Fprintln(os.Stderr, "")
			runner.Usage(os.Stderr)
		}
		os.Exit(1)
	}
}
