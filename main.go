package main

import "github.com/elitehr/elite-time/cmd"

func main() {
	cmd.Execute()
}
