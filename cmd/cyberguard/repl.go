package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	loggerpkg "github.com/minhyannv/cyberguard-go/pkg/logger"
)

const maxInputLine = 1 << 20

// promptSender is the part of dispatch.Dispatcher the CLI depends on.
type promptSender interface {
	SendPrompt(ctx context.Context, prompt string) (string, error)
}

// replOptions configures REPL behavior.
type replOptions struct {
	Verbose bool
	Logger  loggerpkg.Logger
}

// runREPL reads one prompt per line until "exit" or end of input.
// Dispatch failures are reported by the sender and never end the loop.
func runREPL(ctx context.Context, sender promptSender, opts replOptions, in io.Reader, out io.Writer) error {
	if sender == nil {
		return fmt.Errorf("prompt sender is required")
	}
	if in == nil {
		return fmt.Errorf("input reader is required")
	}
	if out == nil {
		out = io.Discard
	}

	loggerpkg.Debug(opts.Verbose, opts.Logger, "repl start", nil)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxInputLine)
	printWelcome(out)

	for {
		_, _ = fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if isExitCommand(line) {
			_, _ = fmt.Fprintln(out)
			_, _ = fmt.Fprintln(out, "👋 Goodbye!")
			return nil
		}
		if strings.TrimSpace(line) == "" {
			continue
		}

		if _, err := sender.SendPrompt(ctx, line); err != nil {
			loggerpkg.Debug(opts.Verbose, opts.Logger, "prompt failed, continuing", map[string]any{
				"error": err.Error(),
			})
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read input: %w", err)
	}
	return nil
}

// isExitCommand matches the whole line; "  exit  " is an ordinary prompt.
func isExitCommand(input string) bool {
	return strings.EqualFold(input, "exit")
}

func printWelcome(out io.Writer) {
	_, _ = fmt.Fprintln(out)
	_, _ = fmt.Fprintln(out, "🔍 CyberGuard AI Test CLI")
	_, _ = fmt.Fprintln(out, `Type your message or "exit" to quit`)
	_, _ = fmt.Fprintln(out)
}
