package main

import (
	"fmt"
	"os"

	"github.com/yungbote/diabetes-app/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "diabetes: %v\n", err)
		os.Exit(1)
	}
}
