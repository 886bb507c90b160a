package main

import "github.com/ppiankov/copywatch/internal/cli"

func main() {
	cli.Execute()
}
