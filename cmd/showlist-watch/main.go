package main

import (
	"github.com/joho/godotenv"
	"github.com/pfrederiksen/showlist-watch/internal/cli"
)

func main() {
	// A .env file is optional; real environment variables take precedence
	_ = godotenv.Load()

	cli.Execute()
}
