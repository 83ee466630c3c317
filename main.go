package main

import "github.com/expocli/expocli/cmd"

func main() {
	cmd.Execute()
}
