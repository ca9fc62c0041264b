package main

import "github.com/sambabib/env-checker/cmd"

func main() {
	cmd.Execute()
}
