// askai forwards typed questions to an OpenAI-compatible chat completion API
// and prints the answers as a scrolling transcript.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/chzyer/readline"

	"github.com/tnglemongrass/askai/internal/chat"
	"github.com/tnglemongrass/askai/internal/config"
	"github.com/tnglemongrass/askai/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

// run owns every deferred cleanup so main can exit with its status.
func run(args []string) int {
	cfg, err := config.Load(args)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return 1
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating logger: %v\n", err)
		return 1
	}
	defer closeLog()

	if cfg.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Warning: No API key configured. Set OPENAI_API_KEY or use --api-key.")
	}

	session, err := chat.NewSession(cfg, os.Stdout, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating session: %v\n", err)
		return 1
	}
	defer session.Close()

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "askai> ",
		HistoryFile:     historyPath(),
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing readline: %v\n", err)
		return 1
	}
	defer rl.Close()

	fmt.Printf("Model: %s | Endpoint: %s\n", cfg.Model, cfg.ChatEndpoint())
	fmt.Println("Type /help for commands, /quit to exit.")

	readInput := func(_ string) (string, error) {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			return "", io.EOF
		}
		return line, err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := session.Run(ctx, readInput); err != nil && ctx.Err() == nil {
		logger.Error("session ended", slog.Any("error", err))
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	if cfg.LogFile == "" {
		logger, err := logging.New(cfg.LogLevel, os.Stderr)
		return logger, func() {}, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	logger, err := logging.New(cfg.LogLevel, f)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, func() { f.Close() }, nil
}

func historyPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	dir := filepath.Join(home, ".askai")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "history")
}
