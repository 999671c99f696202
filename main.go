package main

import "github.com/nateprice/draftlog/cmd"

func main() {
	cmd.Execute()
}
