package main

import (
	"os"

	"github.com/ggonzalez94/agent-gateway/internal/app"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	runner := app.NewRunner()
	os.Exit(runner.Run(os.Args[1:]))
}
