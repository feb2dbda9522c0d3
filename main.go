package main

import (
	"os"

	"github.com/nricciar/em-dns-manager/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
