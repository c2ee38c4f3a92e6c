package main

import (
	"github.com/Laisky/storage-manager/cmd"
)

func main() {
	cmd.Execute()
}
