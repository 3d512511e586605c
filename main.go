package main

import "github.com/cellform/cellform/cmd"

func main() {
	cmd.Execute()
}
