package main

import "github.com/ValentinKolb/dkvnode/cmd"

func main() {
	cmd.Execute()
}
