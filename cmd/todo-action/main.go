package main

import (
	"context"
	"encoding/json"
	"os"
	"strconv"
	"strings"

	ghclient "github.com/ksysoev/todo-action/pkg/github"
	"github.com/ksysoev/todo-action/pkg/runner"
	"github.com/sethvargo/go-githubactions"
)

const defaultAPIURL = "https://api.github.com"

func main() {
	// Set up action
	action := githubactions.New()
	ctx := context.Background()

	// Get action inputs - first try action inputs, then fall back to env vars
	githubToken := inputOrEnv(action, "github_token", "TODO_GITHUB_TOKEN")
	if githubToken == "" {
		githubToken = os.Getenv("GITHUB_TOKEN")
		if githubToken == "" {
			action.Fatalf("github_token input is required")
		}
	}

	configFile := inputOrEnv(action, "config_file", "TODO_CONFIG_FILE")
	dryRun, _ := strconv.ParseBool(inputOrEnv(action, "dry_run", "TODO_DRY_RUN"))

	// Get GitHub context
	ghctx, err := action.Context()
	if err != nil {
		action.Fatalf("Failed to read GitHub context: %v", err)
	}

	if ghctx.EventName != "push" {
		action.Fatalf("This action only works on push events, got: %s", ghctx.EventName)
	}

	if ghctx.Repository == "" {
		action.Fatalf("GITHUB_REPOSITORY environment variable is not set")
	}

	payload, err := json.Marshal(ghctx.Event)
	if err != nil {
		action.Fatalf("Failed to read event payload: %v", err)
	}

	event, err := ghclient.DecodePushEvent(payload)
	if err != nil {
		action.Fatalf("%v", err)
	}

	// Initialize GitHub client
	var client *ghclient.Client
	if apiURL := strings.TrimSuffix(ghctx.APIURL, "/"); apiURL != "" && apiURL != defaultAPIURL {
		client, err = ghclient.NewEnterpriseClient(githubToken, apiURL, ghctx.Repository)
	} else {
		client, err = ghclient.NewClient(githubToken, ghctx.Repository)
	}
	if err != nil {
		action.Fatalf("Failed to create GitHub client: %v", err)
	}

	opts := runner.Options{
		ServerURL:  ghctx.ServerURL,
		ConfigFile: configFile,
	}
	if dryRun {
		action.Infof("Running in dry-run mode - no issues will be created or reopened")
		opts.Tracker = runner.NewDryRunTracker(client, action)
	}

	action.Infof("Scanning push %s to %s for TODO comments", event.GetAfter(), event.GetRef())
	summary, err := runner.Run(ctx, client, event, opts, action)
	if err != nil {
		action.Fatalf("Failed to process push: %v", err)
	}

	for _, out := range summary.Outcomes {
		if out.Err != nil {
			action.Errorf("TODO in %s (line %d) failed: %v", out.Marker.Path, out.Marker.Line, out.Err)
		}
	}

	action.SetOutput("created", strconv.Itoa(summary.Created))
	action.SetOutput("reopened", strconv.Itoa(summary.Reopened))
	action.SetOutput("skipped", strconv.Itoa(summary.Skipped))
	action.SetOutput("failed", strconv.Itoa(summary.Failed))

	action.Infof("Created %d, reopened %d, skipped %d issues (%d failed)",
		summary.Created, summary.Reopened, summary.Skipped, summary.Failed)
	action.Infof("TODO Action completed successfully")
}

// inputOrEnv reads an action input, falling back to an environment variable
func inputOrEnv(action *githubactions.Action, input, env string) string {
	if v := action.GetInput(input); v != "" {
		return v
	}
	return os.Getenv(env)
}
