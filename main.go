package main

import "github.com/nordlys/goiono/cmd"

func main() {
	cmd.Execute()
}
