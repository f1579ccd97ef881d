package main

import "inventory-manager/cmd"

func main() {
	cmd.Execute()
}
