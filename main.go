package main

import "more-shortcuts/cmd"

func main() {
	cmd.Execute()
}
