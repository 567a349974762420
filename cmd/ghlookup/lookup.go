package main

import (
	"errors"
	"io"

	"github.com/spf13/cobra"

	"github.com/sakif/ghlookup/internal/card"
	"github.com/sakif/ghlookup/internal/github"
	"github.com/sakif/ghlookup/internal/lookup"
	"github.com/sakif/ghlookup/internal/model"
)

// errLookupFailed makes the process exit non-zero after the failure line has
// already been printed. main does not log it a second time.
var errLookupFailed = errors.New("lookup failed")

// newLookupCmd runs one lookup from the terminal.
//
// SAME PATH AS THE WEB FORM:
// The command builds the same github.Client and lookup.Service the server
// uses and calls Service.Lookup, so validation, URL escaping, strict
// decoding and the "Failed to fetch data" message are identical. Only the
// output differs: a lipgloss card on stdout instead of HTML.
//
// OUTPUT STREAMS:
// The card (or failure line) goes to stdout; log lines go to stderr, so
// `ghlookup lookup octocat > card.txt` captures only the card.
func newLookupCmd(opts *rootOptions) *cobra.Command {
	var (
		mode  string
		color string
	)

	cmd := &cobra.Command{
		Use:   "lookup <nickname>",
		Short: "Fetch one user or repository and print its card",
		Example: `  ghlookup lookup octocat
  ghlookup lookup --mode repo octocat/Hello-World`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// === 1. VALIDATE FLAGS ===
			// Bad flags fail before any config is read or request is made.
			m, err := model.ParseMode(mode)
			if err != nil {
				return err
			}
			renderer, err := card.NewTextRenderer(cmd.OutOrStdout(), color)
			if err != nil {
				return err
			}

			// === 2. CONFIG + LOGGER ===
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd.ErrOrStderr(), cfg.LogLevel)
			if err != nil {
				return err
			}

			// === 3. LOOKUP ===
			// A blank nickname comes back as a validation error (no request);
			// a failed fetch comes back inside the snapshot.
			client, err := github.NewClient(cfg.APIBaseURL, nil, logger)
			if err != nil {
				return err
			}
			snap, err := lookup.NewService(client, logger).Lookup(cmd.Context(), m, args[0])
			if err != nil {
				return err
			}

			// === 4. PRINT ===
			return printSnapshot(cmd.OutOrStdout(), renderer, snap)
		},
	}
	cmd.Flags().StringVarP(&mode, "mode", "m", model.ModeUser.String(), "what to look up: user or repo")
	cmd.Flags().StringVar(&color, "color", "auto", "colorize output: auto, always or never")

	return cmd
}

func printSnapshot(w io.Writer, r *card.TextRenderer, snap lookup.Snapshot) error {
	if snap.Status != lookup.StatusSuccess {
		if err := r.RenderError(w, snap.Error); err != nil {
			return err
		}
		return errLookupFailed
	}
	c := card.For(snap.Result)
	if c == nil {
		return errLookupFailed
	}
	return r.Render(w, c)
}
