package main

import "github.com/ptnguyen/fundflow/cmd"

func main() {
	cmd.Execute()
}
