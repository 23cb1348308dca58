package main

import "ftpmirror/cmd"

func main() {
	cmd.Execute()
}
