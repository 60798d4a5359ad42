package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/dyastin0/wormhole-client/cmd/wormhole/cmd"
)

func main() {
	// Ignore the error: in production we may be relying on real env vars
	// with no .env file present at all.
	_ = godotenv.Load()

	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
