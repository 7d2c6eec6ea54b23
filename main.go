package main

import (
	"github.com/joho/godotenv"

	"github.com/aldernet/warden/cmd"
)

func main() {
	// .env is optional, env vars set in the shell take precedence
	godotenv.Load()
	cmd.Execute()
}
