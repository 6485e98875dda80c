package main

import (
	"context"
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, colorize(colorRed, "✗ "+err.Error()))
		os.Exit(1)
	}
}
