package main

import "webflash/internal/cli"

func main() {
	cli.Execute()
}
