package main

import (
	"fmt"
	"os"

	cmd "github.com/cloudblocks/tfgen/cmd/tfgen"
)

func main() {
	err := cmd.Tfgen.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
