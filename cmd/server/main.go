package main

import (
	"os"

	"parley/backend/internal/app"
)

// @title           Parley API
// @version         1.0
// @description     Multi-provider LLM chat backend: conversations, streaming completions and credential management.
// @BasePath        /api
func main() {
	os.Exit(app.Run())
}
