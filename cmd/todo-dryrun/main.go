package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	ghclient "github.com/ksysoev/todo-action/pkg/github"
	"github.com/ksysoev/todo-action/pkg/logging"
	"github.com/ksysoev/todo-action/pkg/runner"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Println("usage: todo-dryrun <push-event.json>")
		os.Exit(2)
	}

	// Read token from environment variable
	token := os.Getenv("GITHUB_TOKEN")
	if token == "" {
		fmt.Println("GITHUB_TOKEN environment variable is required")
		os.Exit(1)
	}

	logger := logging.Setup(false, os.Getenv("TODO_DEBUG") != "")
	ctx := context.Background()

	payload, err := os.ReadFile(os.Args[1])
	if err != nil {
		fmt.Printf("Error reading event: %v\n", err)
		os.Exit(1)
	}

	event, err := ghclient.DecodePushEvent(payload)
	if err != nil {
		fmt.Printf("Error decoding event: %v\n", err)
		os.Exit(1)
	}

	client, err := ghclient.NewClient(token, event.GetRepo().GetFullName())
	if err != nil {
		fmt.Printf("Error creating client: %v\n", err)
		os.Exit(1)
	}

	log := logging.NewPrintf(ctx, logger, slog.String("repository", event.GetRepo().GetFullName()))
	summary, err := runner.Run(ctx, client, event, runner.Options{
		ConfigFile: os.Getenv("TODO_CONFIG_FILE"),
		Tracker:    runner.NewDryRunTracker(client, log),
	}, log)
	if err != nil {
		fmt.Printf("Error processing event: %v\n", err)
		os.Exit(1)
	}

	for i, out := range summary.Outcomes {
		status := out.Action.String()
		if out.Err != nil {
			status = "error: " + out.Err.Error()
		}
		fmt.Printf("%d. %s:%d %q -> %s\n", i+1, out.Marker.Path, out.Marker.Line, out.Marker.Title, status)
	}
}
