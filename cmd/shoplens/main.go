package main

import "github.com/shoplens/shoplens/pkg/cli"

func main() {
	cli.Execute()
}
