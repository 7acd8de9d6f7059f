package main

import (
	"fmt"
	"os"

	"github.com/Ning0612/myfind/internal/cli"
)

func main() {
	rootCmd := cli.NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "myfind: %v\n", err)
		os.Exit(1)
	}
}
