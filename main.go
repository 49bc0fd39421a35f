package main

import (
	"fmt"
	"os"
)

func main() {
	ctx, stop := signalContext()
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
