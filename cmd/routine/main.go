package main

import (
	"context"
	"fmt"
	"os"

	"github.com/drewbarontini/system-runner/internal/cli"
)

func main() {
	if err := cli.Execute(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
