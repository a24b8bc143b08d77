package main

import "users-api/cmd"

func main() {
	cmd.Run()
}
