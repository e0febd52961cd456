/*
Copyright © 2025 knowra
*/
package main

import (
	"github.com/joho/godotenv"
	"github.com/knowra/knowra-be/cmd"
)

func main() {
	cmd.Execute()
}

func init() {
	// API keys may come from the environment directly, .env is optional.
	_ = godotenv.Load()
}
