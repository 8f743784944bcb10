package main

import "github.com/notargets/mapmap/cmd"

func main() {
	cmd.Execute()
}
