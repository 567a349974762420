// Package main is the ghlookup executable.
//
// ONE BINARY, THREE COMMANDS:
//
//	ghlookup serve              web form on :8080 (or --port / config)
//	ghlookup lookup <nickname>  one lookup, card printed to the terminal
//	ghlookup config             effective settings as YAML
//
// Each subcommand lives in its own file (serve.go, lookup.go, config.go)
// and is built by a newXxxCmd constructor, so tests can build a fresh
// command tree, point its output at a buffer, and Execute it.
//
// WHERE THINGS HAPPEN:
// main() only sets up signal handling and the exit code. Configuration is
// loaded per command (config.Load), and all real work lives in internal/.
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

	"github.com/spf13/cobra"

	"github.com/sakif/ghlookup/internal/config"
)

func main() {
	// === 1. CANCEL ON CTRL+C / SIGTERM ===
	// NotifyContext cancels ctx on the first signal. `serve` treats that as
	// "shut down gracefully"; `lookup` aborts its in-flight request.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// === 2. RUN THE COMMAND ===
	// ExecuteContext makes ctx available as cmd.Context() in every RunE.
	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		// === 3. REPORT AND EXIT ===
		// os.Exit skips deferred calls, so stop() runs explicitly first.
		reportError(slog.Default(), err)
		stop()
		os.Exit(1)
	}
}

// reportError logs err unless the command already told the user what went
// wrong (a failed lookup has printed "Failed to fetch data" by then).
func reportError(logger *slog.Logger, err error) {
	if errors.Is(err, errLookupFailed) {
		return
	}
	logger.Error("ghlookup command failed", slog.String("error", err.Error()))
}

// rootOptions are the persistent flags every subcommand sees.
type rootOptions struct {
	configPath string
}

// newRootCmd builds the command tree.
//
// SILENCING COBRA:
// By default cobra prints "Error: ..." plus the full usage text for every
// error RunE returns. SilenceErrors leaves error reporting to main (through
// slog), and SilenceUsage keeps a failed lookup from dumping the flag list.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "ghlookup",
		Short:         "Look up GitHub users and repositories",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	// Persistent flags are inherited by every subcommand:
	//   ghlookup --config ghlookup.yaml serve
	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML config file (optional)")

	root.AddCommand(newServeCmd(opts))
	root.AddCommand(newLookupCmd(opts))
	root.AddCommand(newConfigCmd(opts))

	return root
}

// loadConfig reads the config file named by --config, plus GHLOOKUP_* env.
func (o *rootOptions) loadConfig() (config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("loading config: %w", err)
	}
	return cfg, nil
}

// newLogger builds the process logger: slog text output to w at the
// configured level (debug, info, warn, error).
func newLogger(w io.Writer, level string) (*slog.Logger, error) {
	lvl, err := config.ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})), nil
}
