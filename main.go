package main

import "linkhoard/cmd"

func main() {
	cmd.Execute()
}
