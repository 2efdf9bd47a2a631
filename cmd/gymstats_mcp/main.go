// Package main runs the planner MCP server over stdio (for local editor use).
// The same tools are mounted on the main backend at /mcp over HTTP.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/2beens/gymplanner/internal/config"
	"github.com/2beens/gymplanner/internal/db"
	gymstatsmcp "github.com/2beens/gymplanner/internal/gymstats/mcp"
	"github.com/2beens/gymplanner/internal/gymstats/plans"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path to TOML config file")
	userID := flag.String("user", "", "user whose plans the progression preview reads")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx := context.Background()
	dbPool, err := db.NewDBPool(ctx, db.NewDBPoolParams{
		DBHost:         cfg.PostgresHost,
		DBPort:         cfg.PostgresPort,
		DBName:         cfg.PostgresDBName,
		DBPassword:     os.Getenv("GYMPLANNER_DB_PASSWORD"),
		TracingEnabled: false,
	})
	if err != nil {
		log.Fatalf("db pool: %v", err)
	}
	defer dbPool.Close()

	// the preview never saves, so no tracker, evaluator or events are wired
	plansService := plans.NewService(plans.NewRepo(dbPool), nil, nil, nil, nil)
	server := gymstatsmcp.NewServer(gymstatsmcp.NewPoolSchemaRepo(dbPool), plansService, *userID)

	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil {
		log.Fatal(err)
	}
}
