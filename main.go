package main

import "bqro/cmd"

func main() {
	cmd.Execute()
}
