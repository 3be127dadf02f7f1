package main

import (
	"github.com/ringmask/ringmask/cmd"
)

func main() {
	cmd.Execute()
}
