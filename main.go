package main

import (
	"github.com/MarkusH/CloudRAID-Client/cmd"
)

func main() {
	cmd.Execute()
}
