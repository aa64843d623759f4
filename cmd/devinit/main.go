package main

import (
	"fmt"
	"os"

	"github.com/gajzzs/devinit/internal/app"
)

func main() {
	err := app.NewRootCommand().Execute()
	if err != nil && !app.Silent(err) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(app.ExitCode(err))
}
