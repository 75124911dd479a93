// Command bookstore serves the bookstore catalog API.
package main

import (
	"fmt"
	"os"

	"github.com/patric-chuzhbe/bookstore/internal/app"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	theApp, err := app.New()
	if err != nil {
		return err
	}
	defer theApp.Close()

	return theApp.Run()
}
