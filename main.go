package main

import "github.com/Digital-Shane/scenename/internal/cmd"

func main() {
	cmd.Execute()
}
