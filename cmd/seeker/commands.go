package main

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/seekerlabs/seeker/internal/assist"
	"github.com/seekerlabs/seeker/internal/ui"
	uiservices "github.com/seekerlabs/seeker/internal/ui/services"
)

func newChatCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), flags)
		},
	}
}

func runChat(ctx context.Context, flags *rootFlags) error {
	a, err := newApp(flags)
	if err != nil {
		return err
	}
	if err := a.ensureModel(ctx); err != nil {
		return err
	}

	// Logging would draw over the TUI.
	if !flags.verbose {
		log.SetOutput(io.Discard)
	}

	model := a.assistant.Session().Config().Model
	return ui.New(a.assistant, model, a.cfg.UI).Run()
}

func newGenerateCmd(flags *rootFlags) *cobra.Command {
	var language string
	var contextPath string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate code from a prompt, streaming to stdout",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if err := a.ensureModel(cmd.Context()); err != nil {
				return err
			}

			stream, err := a.assistant.Generate(cmd.Context(), assist.GenerateRequest{
				Prompt:      joinArgs(args),
				Language:    language,
				ContextPath: contextPath,
			})
			if err != nil {
				return err
			}
			defer stream.Close()

			out := cmd.OutOrStdout()
			for {
				chunk, err := stream.Next()
				if err == io.EOF {
					break
				}
				if err != nil {
					return err
				}
				// The terminal chunk can still carry content.
				fmt.Fprint(out, chunk.Content)
				if chunk.Done {
					break
				}
			}
			fmt.Fprintln(out)
			return nil
		},
	}

	cmd.Flags().StringVarP(&language, "language", "l", "", "target programming language")
	cmd.Flags().StringVarP(&contextPath, "context", "c", "", "workspace file to include as context")
	return cmd
}

func newExplainCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "explain <path>",
		Short: "Explain what a workspace file does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBufferedFlow(cmd, flags, args[0], (*assist.Assistant).Explain)
		},
	}
}

func newReviewCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "review <path>",
		Short: "Review a workspace file for bugs, security, and style",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBufferedFlow(cmd, flags, args[0], (*assist.Assistant).Review)
		},
	}
}

// runBufferedFlow runs explain/review and prints the reply as rendered
// markdown.
func runBufferedFlow(cmd *cobra.Command, flags *rootFlags, path string,
	flow func(*assist.Assistant, context.Context, string) (string, error)) error {

	a, err := newApp(flags)
	if err != nil {
		return err
	}
	if err := a.ensureModel(cmd.Context()); err != nil {
		return err
	}

	reply, err := flow(a.assistant, cmd.Context(), path)
	if err != nil {
		return err
	}

	renderer := uiservices.NewGlamourRenderer(a.cfg.UI.GlamourStyle)
	fmt.Fprint(cmd.OutOrStdout(), uiservices.RenderMarkdown(reply, 100, renderer))
	return nil
}

func newModelsCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List models installed on the Ollama server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if err := a.client.EnsureRunning(cmd.Context()); err != nil {
				return err
			}

			models, err := a.client.ListModels(cmd.Context())
			if err != nil {
				return err
			}

			current := a.assistant.Session().Config().Model
			for _, m := range models {
				marker := "  "
				if m.Name == current {
					marker = "* "
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\t%s\n", marker, m.Name, formatSize(m.Size))
			}
			return nil
		},
	}
}

func newPullCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "pull <model>",
		Short: "Pull a model onto the Ollama server",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(flags)
			if err != nil {
				return err
			}
			if err := a.client.EnsureRunning(cmd.Context()); err != nil {
				return err
			}
			return a.pullModel(cmd.Context(), args[0])
		},
	}
}

func joinArgs(args []string) string {
	out := args[0]
	for _, a := range args[1:] {
		out += " " + a
	}
	return out
}

func formatSize(bytes int64) string {
	const gb = 1024 * 1024 * 1024
	const mb = 1024 * 1024
	switch {
	case bytes >= gb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	case bytes >= mb:
		return fmt.Sprintf("%.0f MB", float64(bytes)/mb)
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}
