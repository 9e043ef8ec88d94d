package main

import "amon/cmd"

func main() {
	cmd.Execute()
}
