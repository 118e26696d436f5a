package main

import "revisio/cmd/revisio/cmd"

func main() {
	cmd.Execute()
}
