package main

import "github.com/papapumpkin/selang/cmd"

func main() {
	cmd.Execute()
}
