package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gdamore/tcell/v2"

	"github.com/rocketscienceinc/tictactoe-bot/internal/config"
	"github.com/rocketscienceinc/tictactoe-bot/internal/console"
)

// main - runs the terminal game. The terminal belongs to the board, so logs go to TTT_LOG_FILE or nowhere.
func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "console: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	conf, err := config.LoadConsole()
	if err != nil {
		return err
	}

	logOutput := io.Discard
	if conf.LogFile != "" {
		file, err := os.OpenFile(conf.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		defer file.Close()

		logOutput = file
	}

	logger := slog.New(slog.NewJSONHandler(logOutput, nil))

	tcell.SetEncodingFallback(tcell.EncodingFallbackASCII)

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("new screen: %w", err)
	}

	if err = screen.Init(); err != nil {
		return fmt.Errorf("screen init: %w", err)
	}
	defer screen.Fini()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	err = console.New(logger, screen, conf.ThinkDelay).Run(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("console run failed: %w", err)
	}

	return nil
}
