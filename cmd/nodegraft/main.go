package main

import "github.com/mvenn/nodegraft/cmd/nodegraft/commands"

func main() {
	commands.Execute()
}
