package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/sakif/ghlookup/internal/server"
)

// newServeCmd runs the web form until the process is signalled.
//
// PRECEDENCE:
// defaults < config file < GHLOOKUP_* env < --port.
// The flag only wins when it was actually passed (Flags().Changed), so its
// default of 8080 never overrides GHLOOKUP_PORT or the file.
func newServeCmd(opts *rootOptions) *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the lookup form over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// === 1. CONFIGURATION ===
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("port") {
				cfg.Port = port
			}

			// === 2. LOGGING ===
			// Server logs go to stdout, like any long-running service.
			logger, err := newLogger(os.Stdout, cfg.LogLevel)
			if err != nil {
				return err
			}

			// === 3. BUILD AND RUN ===
			// server.New validates cfg and wires every dependency. A nil
			// http.Client means http.DefaultClient for GitHub calls.
			// Start blocks until cmd.Context() is cancelled by a signal.
			srv, err := server.New(cfg, nil, logger)
			if err != nil {
				return err
			}
			return srv.Start(cmd.Context())
		},
	}
	cmd.Flags().IntVarP(&port, "port", "p", 8080, "listen port (overrides config)")

	return cmd
}
