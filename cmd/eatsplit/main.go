package main

import "eatsplit/internal/cli"

func main() {
	cli.Execute()
}
