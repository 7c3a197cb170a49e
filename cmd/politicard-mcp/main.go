package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"github.com/politicard/politicard/internal/catalog"
	"github.com/politicard/politicard/internal/game"
	politicardmcp "github.com/politicard/politicard/internal/mcp"
	"github.com/politicard/politicard/internal/store"
)

func main() {
	dataDir := flag.String("data", "data", "path to card data directory")
	flag.Parse()

	// Stdout carries the MCP protocol; keep logs on stderr.
	log := logrus.New()
	log.SetOutput(os.Stderr)

	cat, err := catalog.Load(*dataDir, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	orch := game.NewOrchestrator(game.NewEngine(cat), store.NewMemoryStore(), log)
	s := server.NewMCPServer("politicard", "1.0.0")
	politicardmcp.NewBridge(orch).RegisterTools(s)

	if err := server.ServeStdio(s); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
