package main

import "github.com/jjenkins/covidash/cmd"

func main() {
	cmd.Execute()
}
