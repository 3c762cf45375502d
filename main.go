package main

import (
	"os"

	"github.com/deploymenttheory/go-lvmsnap/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
