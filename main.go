package main

import "github.com/karolswdev/promptarchitect/cmd"

func main() {
	cmd.Execute()
}
