package main

import (
	"fmt"
	"os"
	osx "os"
)

func main() {
	fmt.Println("start")
	os.Exit(1)   // want "direct os.Exit call in main.main"
	osx.Exit(2)  // want "direct os.Exit call in main.main"

	defer func() {
		os.Exit(3)
	}()
}

func helper() {
	os.Exit(4)
}
