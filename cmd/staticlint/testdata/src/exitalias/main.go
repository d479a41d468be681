package main

import sys "os"

func main() {
	func() {
		sys.Exit(2) // want `os.Exit call is forbidden in main function: sys.Exit\(2\)`
	}()
}
