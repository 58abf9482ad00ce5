package main

import "reviewhub/cmd/importer/command"

func main() {
	command.Execute()
}
