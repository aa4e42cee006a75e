package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/sqlitedesk/sqlitedesk/cmd"
)

func init() {
	godotenv.Load()
}

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
