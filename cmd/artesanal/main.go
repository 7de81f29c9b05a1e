package main

import "artesanal/cmd/artesanal/cmd"

func main() {
	cmd.Execute()
}
