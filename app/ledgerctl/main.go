package main

import "github.com/kreana/goapi/app/ledgerctl/cmd"

func main() {
	cmd.Execute()
}
