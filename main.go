package main

import "github.com/danuandrean/pettycash/cmd"

func main() {
	cmd.Execute()
}
