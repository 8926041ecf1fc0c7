package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/seekerlabs/seeker/internal/assist"
	"github.com/seekerlabs/seeker/internal/config"
	"github.com/seekerlabs/seeker/internal/ollama"
	"github.com/seekerlabs/seeker/internal/session"
	"github.com/seekerlabs/seeker/internal/workspace"
)

type rootFlags struct {
	workspaceDir string
	model        string
	host         string
	verbose      bool
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	cmd := &cobra.Command{
		Use:   "seeker",
		Short: "Local coding assistant backed by Ollama",
		Long: "Seeker is a local coding assistant. It chats about, generates, explains,\n" +
			"and reviews code, reading files only from within a sandboxed workspace.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if flags.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// Bare "seeker" starts the chat UI.
			return runChat(cmd.Context(), flags)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&flags.workspaceDir, "workspace", "w", ".", "workspace root directory")
	pf.StringVarP(&flags.model, "model", "m", "", "model to use (overrides config)")
	pf.StringVar(&flags.host, "host", "", "ollama server URL (overrides config)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable debug logging")

	cmd.AddCommand(
		newChatCmd(flags),
		newGenerateCmd(flags),
		newExplainCmd(flags),
		newReviewCmd(flags),
		newLsCmd(flags),
		newFindCmd(flags),
		newCatCmd(flags),
		newModelsCmd(flags),
		newPullCmd(flags),
	)

	return cmd
}

// app bundles the wired components behind every subcommand.
type app struct {
	cfg       *config.Config
	guard     *workspace.Guard
	client    *ollama.Client
	assistant *assist.Assistant
}

func newApp(flags *rootFlags) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.model != "" {
		cfg.Ollama.Model = flags.model
	}
	if flags.host != "" {
		cfg.Ollama.Host = flags.host
	}

	guard, err := workspace.New(flags.workspaceDir, workspace.Options{
		MaxFileSize:      cfg.Workspace.MaxFileSize,
		BinarySampleSize: cfg.Workspace.BinarySampleSize,
		IgnoreFile:       cfg.Workspace.IgnoreFile,
	})
	if err != nil {
		return nil, err
	}

	client := ollama.NewClient(ollama.Config{
		Host:              cfg.Ollama.Host,
		RequestTimeout:    time.Duration(cfg.Ollama.RequestTimeoutSeconds) * time.Second,
		StreamIdleTimeout: time.Duration(cfg.Ollama.StreamIdleTimeoutSeconds) * time.Second,
	})

	sess, err := session.New(session.NewOllamaBackend(client), session.Config{
		Model:       cfg.Ollama.Model,
		Temperature: cfg.Ollama.Temperature,
		NumCtx:      cfg.Ollama.NumCtx,
		MaxTokens:   cfg.Ollama.MaxTokens,
		Timeout:     time.Duration(cfg.Ollama.RequestTimeoutSeconds) * time.Second,
	})
	if err != nil {
		return nil, err
	}

	return &app{
		cfg:       cfg,
		guard:     guard,
		client:    client,
		assistant: assist.New(guard, sess),
	}, nil
}

// ensureModel starts the server if needed and resolves the configured
// model against the installed ones, pulling it when absent.
func (a *app) ensureModel(ctx context.Context) error {
	if err := a.client.EnsureRunning(ctx); err != nil {
		return fmt.Errorf("ollama server is not reachable at %s: %w", a.client.Host(), err)
	}

	installed, err := a.assistant.Models(ctx)
	if err != nil {
		return err
	}

	want := a.assistant.Session().Config().Model
	resolved, err := session.NormalizeModel(want, installed)
	if err == nil {
		return a.assistant.Session().SetModel(resolved)
	}
	if !errors.Is(err, session.ErrModelNotInstalled) {
		return err
	}

	log.Info("model not installed, pulling", "model", want)
	if err := a.pullModel(ctx, want); err != nil {
		return err
	}
	return a.assistant.Session().SetModel(want)
}

func (a *app) pullModel(ctx context.Context, name string) error {
	var lastStatus string
	return a.client.Pull(ctx, name, func(p ollama.PullProgress) {
		if p.Status != lastStatus {
			lastStatus = p.Status
			log.Info(p.Status, "model", name)
		}
	})
}
