package main

import (
	"github.com/joho/godotenv"

	"github.com/gridops/gridassess/internal/cli"
)

func main() {
	// A .env alongside the binary is optional.
	_ = godotenv.Load()

	cli.Execute()
}
