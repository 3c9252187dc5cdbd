package main

import "github.com/MabelHsu/ig-fb-view-analyzer/cmd"

func main() {
	cmd.Execute()
}
