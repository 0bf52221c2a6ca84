package main

import "github.com/dgallion1/cvoutline/internal/cli"

func main() {
	cli.Execute()
}
