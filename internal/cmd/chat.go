package cmd

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mkoudela/shoplens/internal/assistant"
	"github.com/mkoudela/shoplens/internal/config"
)

var (
	chatQuestion string
	chatStream   bool
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Chat with the AI data analyst",
	Long: `Open an interactive session with the AI data analyst. The analyst has
the dataset files attached and answers with code-interpreter analysis.

Use --question for a single one-shot question instead of a session.`,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringVarP(&chatQuestion, "question", "q", "", "Ask a single question and exit")
	chatCmd.Flags().BoolVar(&chatStream, "stream", true, "Stream the reply token by token")
}

func runChat(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	client, err := assistant.New(&cfg.Assistant)
	if err != nil {
		return fmt.Errorf("failed to create assistant client: %w", err)
	}

	ctx := cmd.Context()
	fmt.Println("🤖 Opening analyst session...")
	thread, err := client.CreateThread(ctx, assistant.SeedMessages(&cfg.Assistant))
	if err != nil {
		return fmt.Errorf("failed to create assistant thread: %w", err)
	}

	if chatQuestion != "" {
		return ask(ctx, client, thread.ID, chatQuestion)
	}

	fmt.Println("💬 Ask about the data (empty line to quit):")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		question := strings.TrimSpace(scanner.Text())
		if question == "" {
			break
		}
		if err := ask(ctx, client, thread.ID, question); err != nil {
			return err
		}
	}
	return scanner.Err()
}

func ask(ctx context.Context, client assistant.Client, threadID, question string) error {
	if _, err := client.AddMessage(ctx, threadID, question); err != nil {
		return fmt.Errorf("failed to add message: %w", err)
	}

	var (
		run *assistant.Run
		err error
	)
	if chatStream {
		run, err = client.StreamRun(ctx, threadID, func(text string) {
			fmt.Print(text)
		})
		if err != nil {
			return fmt.Errorf("assistant stream failed: %w", err)
		}
		fmt.Println()
	} else {
		run, err = client.RunAndPoll(ctx, threadID)
		if err != nil {
			return fmt.Errorf("assistant run failed: %w", err)
		}
		messages, err := client.ListMessages(ctx, threadID, 1)
		if err != nil {
			return fmt.Errorf("failed to list messages: %w", err)
		}
		if len(messages) > 0 {
			fmt.Println(messages[0].PlainText())
		}
	}

	if run != nil && run.Status != "" && run.Status != assistant.RunCompleted {
		return fmt.Errorf("assistant run ended with status %s", run.Status)
	}
	return nil
}
