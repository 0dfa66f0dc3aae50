package main

import "github.com/cmmoran/headergen/cmd"

func main() {
	cmd.Execute()
}
