package main

import "github.com/josephlewis42/dcsh/cmd"

func main() {
	cmd.Execute()
}
