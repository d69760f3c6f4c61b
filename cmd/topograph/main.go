package main

import "github.com/nfrund/topograph/cmd/topograph/cmd"

func main() {
	cmd.Execute()
}
