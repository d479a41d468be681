package main

import "os"

func main() {
	defer func() {}()
	os.Exit(1) // want `os.Exit call is forbidden in main function: os.Exit\(1\)`
}
