package main

import "github.com/kubev2v/aql-compiler/cmd"

func main() {
	cmd.Execute()
}
