package main

import "github.com/jfmyers9/scrobblemood/cmd"

func main() {
	cmd.Execute()
}
