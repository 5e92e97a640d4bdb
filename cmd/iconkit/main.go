package main

import "github.com/patchpilot/iconkit/cmd"

func main() {
	cmd.Execute()
}
