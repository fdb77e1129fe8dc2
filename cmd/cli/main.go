package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"vjudge/internal/auth"
	"vjudge/internal/cli/command"
	"vjudge/internal/cli/config"
	"vjudge/internal/cli/http"
	"vjudge/internal/cli/repl"
	"vjudge/internal/grading"
	"vjudge/internal/pqrs"
	"vjudge/internal/tracker"
	"vjudge/pkg/utils/logger"
)

const defaultConfigPath = "configs/cli.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "Path to config file")
	gradingURL := flag.String("grading", "", "Override grading API base URL")
	authURL := flag.String("auth", "", "Override auth API base URL")
	pqrsURL := flag.String("pqrs", "", "Override PQRS API base URL")
	timeout := flag.Duration("timeout", 0, "Override HTTP timeout (e.g. 10s)")
	statePath := flag.String("state", "", "Override session state path")
	pretty := flag.Bool("pretty", false, "Pretty print JSON responses")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		return
	}
	if *gradingURL != "" {
		cfg.GradingURL = *gradingURL
	}
	if *authURL != "" {
		cfg.AuthURL = *authURL
	}
	if *pqrsURL != "" {
		cfg.PQRSURL = *pqrsURL
	}
	if *timeout > 0 {
		cfg.Timeout = *timeout
	}
	if *statePath != "" {
		cfg.StatePath = *statePath
	}
	if *pretty {
		trueValue := true
		cfg.PrettyJSON = &trueValue
	}

	if err := logger.Init(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat}); err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		return
	}
	defer logger.Sync()

	session, err := auth.NewSession(cfg.StatePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load session state failed: %v\n", err)
		return
	}
	token := session.Token

	gradingClient := grading.NewClient(httpclient.New(cfg.GradingURL, cfg.Timeout, token))
	authClient := auth.NewClient(httpclient.New(cfg.AuthURL, cfg.Timeout, token), session)
	pqrsClient := pqrs.NewClient(httpclient.New(cfg.PQRSURL, cfg.Timeout, token))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A stored token may be stale; verify once so the session reflects
	// what the backend will actually accept.
	if session.Authenticated() {
		if _, err := authClient.Verify(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "verify session failed: %v\n", err)
		}
	}

	deps := repl.Deps{
		Commands:   command.Registry(),
		Session:    session,
		Auth:       authClient,
		Grading:    gradingClient,
		PQRS:       pqrsClient,
		Tracker:    tracker.New(gradingClient, tracker.WithInterval(cfg.PollInterval)),
		PageSize:   cfg.PageSize,
		PrettyJSON: cfg.PrettyJSON != nil && *cfg.PrettyJSON,
	}
	if err := repl.New(deps).Run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "session ended: %v\n", err)
	}
}
