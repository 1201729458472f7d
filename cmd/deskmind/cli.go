package main

import (
	"bufio"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/deskmind/deskmind/core"
)

func buildRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "deskmind",
		Short: "Conversational support agent runtime with sessions, memory and knowledge retrieval",
		Long: strings.TrimSpace(`deskmind runs a pluggable support agent: messages are classified,
dispatched to deterministic handlers, and unresolved turns fall back to a
generative model. Sessions, memory and the knowledge base persist to SQLite
when DESKMIND_DB_PATH is set.`),
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(newChatCommand())
	root.AddCommand(newAskCommand())
	root.AddCommand(newIngestCommand())
	root.AddCommand(newVersionCommand())

	return root
}

func newChatCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:     "chat",
		Short:   "Start an interactive session with the agent",
		Example: "  deskmind chat --session support-42",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			if sessionID == "" {
				sessionID = core.NewID()
			}
			fmt.Printf("session %s (ctrl-d to exit)\n", sessionID)

			scanner := bufio.NewScanner(os.Stdin)
			for {
				fmt.Print("> ")
				if !scanner.Scan() {
					fmt.Println()
					return scanner.Err()
				}
				line := strings.TrimSpace(scanner.Text())
				if line == "" {
					continue
				}

				resp, err := rt.agent.ProcessMessage(ctx, line, sessionID)
				if err != nil && resp.Content == "" {
					fmt.Fprintln(os.Stderr, "error:", err)
					continue
				}
				if err != nil {
					// Reply produced but not fully persisted.
					fmt.Fprintln(os.Stderr, "warning:", err)
				}
				fmt.Println(resp.Content)
			}
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to resume (default: new)")
	return cmd
}

func newAskCommand() *cobra.Command {
	var sessionID string

	cmd := &cobra.Command{
		Use:     "ask [message]",
		Short:   "Send a single message and print the reply",
		Args:    cobra.MinimumNArgs(1),
		Example: `  deskmind ask "what is 2 + 2?"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			resp, err := rt.agent.ProcessMessage(ctx, strings.Join(args, " "), sessionID)
			if err != nil && resp.Content == "" {
				return err
			}
			fmt.Println(resp.Content)
			return err
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "Session id to resume (default: new)")
	return cmd
}

func newIngestCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:     "ingest [file...]",
		Short:   "Index documents into the agent's knowledge base",
		Args:    cobra.MinimumNArgs(1),
		Example: "  deskmind ingest docs/faq.md docs/onboarding.md",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			rt, err := buildRuntime(ctx)
			if err != nil {
				return err
			}
			defer rt.close()

			for _, path := range args {
				content, err := os.ReadFile(path)
				if err != nil {
					return fmt.Errorf("read %s: %w", path, err)
				}
				docTitle := title
				if docTitle == "" {
					docTitle = filepath.Base(path)
				}
				stats, err := rt.agent.Ingest(ctx, core.Document{
					ID:      filepath.Base(path),
					Title:   docTitle,
					Content: string(content),
					Type:    "file",
				})
				if err != nil {
					return fmt.Errorf("ingest %s: %w", path, err)
				}
				fmt.Printf("%s: %d chunks, %d embeddings\n", path, stats.Chunks, stats.Embeddings)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "Document title (default: file name)")
	return cmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Println("deskmind", formatVersion())
		},
	}
}
