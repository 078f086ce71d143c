package main

import "github.com/ValentinKolb/slashdb/cmd"

func main() {
	cmd.Execute()
}
