package main

import "github.com/jhprinz/chainstore/cmd"

func main() {
	cmd.Execute()
}
