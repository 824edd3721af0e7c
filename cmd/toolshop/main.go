package main

import "github.com/marshallshelly/toolshop-fixtures/cmd/toolshop/commands"

func main() {
	commands.Execute()
}
