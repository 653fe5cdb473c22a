package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/oasislabs/toolstate/cmd/toolstate/cmd"
)

func main() {
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
