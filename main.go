package main

import "github.com/coursegen/coursegen/cmd"

func main() {
	cmd.Execute()
}
