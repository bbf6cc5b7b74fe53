package main

import "timew-companion/cmd"

func main() {
	cmd.Execute()
}
