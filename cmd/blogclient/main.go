package main

import (
	"context"
	"log"
	"os"

	"blogclient/internal/cli"
	"blogclient/internal/config"
	"blogclient/internal/logger"
	"blogclient/internal/sqlite"
	"blogclient/pkg/api"
	"blogclient/pkg/blog"
	"blogclient/pkg/session"
	"blogclient/pkg/user"
)

func main() {
	cfg := config.Load()

	db := sqlite.LoadDB(cfg.TokenDBPath)
	defer db.Close()

	logger := logger.Load(cfg.LogFile)

	sessions := session.NewStore()
	tokens := session.NewSQLiteTokenRepo(db)
	client := api.NewClient(cfg.APIBaseURL, sessions, logger)
	gateway := user.NewGateway(client, sessions, tokens, logger)
	repo := blog.NewRepository()
	service := blog.NewService(client, repo, sessions, logger)

	ctx := context.Background()

	// Restore identity from a prior run; any failure leaves us anonymous.
	if err := gateway.ResolveCurrentSession(ctx); err != nil {
		logger.Warn("startup session resolve", "error", err)
	}

	app := &cli.App{
		Sessions: sessions,
		Auth:     gateway,
		Posts:    service,
		Repo:     repo,
		Logger:   logger,
		In:       os.Stdin,
		Out:      os.Stdout,
	}
	if err := app.Run(ctx); err != nil {
		log.Fatal("Client failed:", err)
	}
}
