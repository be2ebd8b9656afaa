package main

import "github.com/ridoystarlord/relq/cmd"

func main() {
	cmd.Execute()
}
