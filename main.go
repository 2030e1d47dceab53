package main

import (
	"fmt"
	"os"

	"github.com/forgeline-ai/forgeline/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
