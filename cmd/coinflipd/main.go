package main

import (
	"fmt"
	"os"

	"github.com/block52/coinflipchain/cmd/coinflipd/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
