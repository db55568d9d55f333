package main

import (
	"log"

	_ "github.com/joho/godotenv/autoload"
	"github.com/mark3labs/mcp-go/server"

	"beaunifi/internal/config"
	"beaunifi/internal/mcp"
	"beaunifi/internal/transform"
	"beaunifi/internal/workflow"
)

// The MCP entrypoint speaks the protocol over stdio, so nothing else may
// write to stdout; stdlib log already goes to stderr.
func main() {
	cfg := config.Load()

	svc := workflow.NewService(transform.Facade{}, workflow.Config{
		JS:                cfg.Detect.JS,
		CSS:               cfg.Detect.CSS,
		DefaultIndentSize: cfg.Transform.IndentSize,
	})

	if err := server.ServeStdio(mcp.NewServer(svc)); err != nil {
		log.Fatalf("mcp server exited: %v", err)
	}
}
