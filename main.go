package main

import "chatui/cmd"

func main() {
	cmd.Execute()
}
