package main

import "github.com/example/task-tracker/cmd"

func main() {
	cmd.Execute()
}
