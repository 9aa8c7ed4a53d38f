// Package main is the awareness CLI.
package main

import (
	"log"
	"os"

	"go.viam.com/awareness/cli"
)

func main() {
	app := cli.NewApp(os.Stdout, os.Stderr)
	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
