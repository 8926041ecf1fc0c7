// Package main is the seeker CLI: a local coding assistant that chats,
// generates, explains, and reviews code against a sandboxed workspace,
// backed by a local Ollama server.
package main

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

func main() {
	// A .env in the working directory may carry OLLAMA_HOST etc.
	// Missing files are fine.
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}
