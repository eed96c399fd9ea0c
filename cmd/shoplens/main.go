package main

import "github.com/mkoudela/shoplens/internal/cmd"

func main() {
	cmd.Execute()
}
