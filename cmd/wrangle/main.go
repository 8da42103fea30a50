package main

import "wranglecli/internal/cmd"

func main() {
	cmd.Execute()
}
