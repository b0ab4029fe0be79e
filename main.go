package main

import "github.com/ValentinKolb/sgc/cmd"

func main() {
	cmd.Execute()
}
