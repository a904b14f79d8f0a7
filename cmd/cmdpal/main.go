// Command cmdpal is a command palette for workspace shell commands.
package main

import "github.com/VoxDroid/cmdpal/cmd"

func main() {
	cmd.Execute()
}
