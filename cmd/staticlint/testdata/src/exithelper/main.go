package main

import (
	"fmt"
	"os"
)

func main() {
	if err := run(); err != nil {
		exit(err)
	}
}

func run() error { return nil }

func exit(err error) {
	fmt.Println(err)
	os.Exit(1)
}
