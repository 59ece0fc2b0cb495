// Package main provides the CyberGuard command-line client.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/minhyannv/cyberguard-go/pkg/dispatch"
	loggerpkg "github.com/minhyannv/cyberguard-go/pkg/logger"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// errReported marks a failure whose details were already printed.
var errReported = errors.New("failure already reported")

// main is the program entry point.
func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	cmd := newRootCommand(ctx, in, out, errOut)
	cmd.SetArgs(args)
	cmd.SetIn(in)
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	if err := cmd.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			_, _ = fmt.Fprintf(errOut, "❌ Error: %v\n", err)
		}
		return 1
	}
	return 0
}

func newRootCommand(ctx context.Context, in io.Reader, out, errOut io.Writer) *cobra.Command {
	var flags cliFlags

	cmd := &cobra.Command{
		Use:   "cyberguard [prompt words...]",
		Short: "Ask CyberGuard AI, a cybersecurity expert assistant",
		Long: "With prompt words, sends them as one question and exits.\n" +
			"Without arguments, starts an interactive session; type \"exit\" to quit.",
		Args:          cobra.ArbitraryArgs,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := parseCLIConfig(flags, os.Getenv)
			if err != nil {
				return err
			}

			appLogger := loggerpkg.NewWriterLogger(errOut, cfg.Verbose)
			d, err := dispatch.New(cfg,
				dispatch.WithLogger(appLogger),
				dispatch.WithOutput(out),
				dispatch.WithErrorOutput(errOut),
			)
			if err != nil {
				return err
			}

			if len(args) > 0 {
				return runOneShot(ctx, d, args)
			}
			return runREPL(ctx, d, replOptions{
				Verbose: cfg.Verbose,
				Logger:  appLogger,
			}, in, out)
		},
	}

	// Everything after the first prompt word belongs to the prompt.
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&flags.configPath, "config", "", "Optional YAML file with model, max_tokens, temperature, base_url, verbose")
	cmd.Flags().BoolVarP(&flags.verbose, "verbose", "v", false, "Verbose diagnostic logging on stderr")
	cmd.Flags().StringVar(&flags.endpoint, "endpoint", "", "Chat completion API root")
	_ = cmd.Flags().MarkHidden("endpoint")
	return cmd
}

// runOneShot sends the joined arguments once. Transport and remote failures
// are reported by the dispatcher and still count as a normal completion.
func runOneShot(ctx context.Context, sender promptSender, args []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("dispatch panicked: %v", r)
		}
	}()

	_, err = sender.SendPrompt(ctx, joinPrompt(args))
	if err == nil {
		return nil
	}
	var dispatchErr *dispatch.Error
	if errors.As(err, &dispatchErr) {
		if dispatchErr.Kind == dispatch.KindMalformedResponse {
			return errReported
		}
		return nil
	}
	return err
}

func joinPrompt(args []string) string {
	return strings.Join(args, " ")
}

