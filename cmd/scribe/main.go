package main

import (
	"fmt"
	"os"

	"legal-scribe/cmd/scribe/cmd"
	"legal-scribe/internal/config"

	// Import providers to register them
	_ "legal-scribe/internal/app/api/demo"
	_ "legal-scribe/internal/app/api/elevenlabs"
	_ "legal-scribe/internal/app/api/openai"
)

func main() {
	if err := config.LoadEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v\n", err)
	}

	cmd.Execute()
}
