package main

import "github.com/shiroyk/domevent/cmd"

func main() {
	cmd.Execute()
}
