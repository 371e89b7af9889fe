package main

import "github.com/okian/fplboard/internal/cli"

func main() {
	cli.Execute()
}
