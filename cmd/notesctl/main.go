package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/adhikari10/AI-Meeting-Notes/internal/cli"
	"github.com/adhikari10/AI-Meeting-Notes/internal/client"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	serverURL := os.Getenv("NOTES_SERVER_URL")
	if serverURL == "" {
		serverURL = "http://localhost:8080"
	}
	token := os.Getenv("NOTES_SERVER_TOKEN")

	deps := &cli.Dependencies{
		REST:      client.NewREST(serverURL, token, logger),
		ServerURL: serverURL,
		Token:     token,
		Logger:    logger,
	}

	if err := cli.NewRootCmd(deps).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
