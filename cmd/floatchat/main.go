// Command floatchat is a terminal chat client for the ocean float data assistant.
package main

import "github.com/diogo/floatchat/internal/commands"

func main() {
	commands.Execute()
}
