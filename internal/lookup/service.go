package lookup

// SERVICE LAYER:
// Service is the only code that runs a submission end to end:
//
//	State.Begin(nickname, mode) → Fetcher.Fetch(ticket) → State.Complete(ticket, ...)
//
// It knows nothing about HTTP, templates or terminals. The page handler, the
// JSON API and the CLI all call into it, and each decides how to show the
// resulting Snapshot.
//
// FAILURES ARE STATE, NOT ERRORS:
// A failed fetch is a normal outcome (StatusFailed with the fixed message),
// so Submit returns it inside the Snapshot with a nil error. The only error
// Submit returns is the validation error for a blank nickname, which means
// no request was made at all.

import (
	"context"
	"log/slog"

	"github.com/sakif/ghlookup/internal/model"
)

// Fetcher retrieves the record for one mode/nickname pair.
// *github.Client is the production implementation; tests use stubs.
type Fetcher interface {
	Fetch(ctx context.Context, mode model.Mode, nickname string) (model.Record, error)
}

// Service runs submissions: one Begin, one Fetch, one Complete.
// It never retries.
type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewService creates a Service.
func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Submit records nickname and mode on st, starts a new submission, and
// blocks until its fetch resolves.
//
// If a newer submission started on st while this one was in flight, this
// one's outcome is discarded and the snapshot reflects the newer submission.
func (s *Service) Submit(ctx context.Context, st *State, nickname string, mode model.Mode) (Snapshot, error) {
	ticket, err := st.Begin(nickname, mode)
	if err != nil {
		return st.Snapshot(), err
	}

	// The fetch runs without the state lock held; the ticket is all it needs.
	rec, fetchErr := s.fetcher.Fetch(ctx, ticket.Mode, ticket.Nickname)
	if fetchErr != nil {
		// The cause (status code, transport error, bad JSON) only goes to logs.
		s.logger.Warn("lookup failed",
			slog.String("mode", ticket.Mode.String()),
			slog.String("nickname", ticket.Nickname),
			slog.Uint64("seq", ticket.Seq),
			slog.String("error", fetchErr.Error()),
		)
	}

	applied := st.Complete(ticket, rec, fetchErr)
	snap := st.Snapshot()
	switch {
	case !applied:
		s.logger.Debug("discarding stale lookup result",
			slog.String("mode", ticket.Mode.String()),
			slog.String("nickname", ticket.Nickname),
			slog.Uint64("seq", ticket.Seq),
			slog.Uint64("latest", snap.Seq),
		)
	case snap.Status == StatusSuccess:
		s.logger.Info("lookup succeeded",
			slog.String("mode", ticket.Mode.String()),
			slog.String("nickname", ticket.Nickname),
			slog.Uint64("seq", ticket.Seq),
		)
	}

	return snap, nil
}

// Lookup runs a single submission on a fresh State. It is the stateless
// entry point used by the JSON API and the CLI.
func (s *Service) Lookup(ctx context.Context, mode model.Mode, nickname string) (Snapshot, error) {
	return s.Submit(ctx, NewState(), nickname, mode)
}
