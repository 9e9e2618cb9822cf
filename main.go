package main

import "github.com/pranshu-dhingra/bfsi-research-agent/cmd"

func main() {
	cmd.Execute()
}
