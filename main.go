package main

import "github.com/notargets/meshxdr/cmd"

func main() {
	cmd.Execute()
}
