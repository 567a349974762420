// Package lookup owns the search lifecycle: the per-visitor State record and
// the Service that drives one submission through it.
//
// STATE MACHINE:
//
//	Idle ──Begin──▶ Loading ──Complete(ok)──▶ Success
//	                   │
//	                   └──Complete(err)──▶ Failed
//
// Begin is allowed from any state and always restarts the cycle. Success and
// Failed are not terminal: the next Begin clears them.
//
// TICKETS:
// Each Begin hands out a Ticket carrying a monotonic sequence number plus the
// nickname and mode it was started with. Complete ignores any ticket that is
// not the latest, so an older response can never overwrite a newer
// submission, whichever order the two responses arrive in.
//
// ONE LOCK PER TRANSITION:
// Two browser tabs of one session share one State. Every transition is a
// single method that takes the mutex once; Begin records the submitted input
// and starts the cycle in the same critical section, so another tab's input
// can never slip in between "what was typed" and "what gets fetched".
package lookup

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/sakif/ghlookup/internal/apperror"
	"github.com/sakif/ghlookup/internal/model"
)

// Status is the lifecycle position of a State.
type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText renders the status as its lowercase name in JSON.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Ticket identifies one submission. It freezes the mode and nickname that were
// current when the submission started.
type Ticket struct {
	Seq      uint64
	Mode     model.Mode
	Nickname string
}

// Snapshot is an immutable copy of a State, safe to hand to templates.
type Snapshot struct {
	Nickname string
	Mode     model.Mode
	Status   Status
	Result   model.Record
	Error    string
	Seq      uint64
}

// State is the single source of truth for one visitor's form and outcome.
// Its methods are the only mutators, and it is safe for concurrent use.
type State struct {
	mu       sync.Mutex
	nickname string
	mode     model.Mode
	status   Status
	result   model.Record
	errMsg   string
	seq      uint64
}

// NewState returns an Idle state with an empty nickname and ModeUser.
func NewState() *State {
	return &State{}
}

// SetNickname stores the raw text input without starting a submission.
func (s *State) SetNickname(nickname string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nickname = nickname
}

// SetMode stores the selector value. It does not touch the current result.
func (s *State) SetMode(mode model.Mode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = mode
}

// Begin records nickname and mode as the current input, then moves the
// state to Loading, clearing result and error, and returns the ticket the
// eventual Complete must present.
//
// The nickname is trimmed for the ticket but stored as typed, so the form can
// echo it back. A blank nickname is rejected after the input is recorded:
// status, result, error and seq are left untouched.
func (s *State) Begin(nickname string, mode model.Mode) (Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nickname = nickname
	s.mode = mode

	trimmed := strings.TrimSpace(nickname)
	if trimmed == "" {
		return Ticket{}, apperror.ValidationFailed("nickname", "nickname is required")
	}

	s.seq++
	s.status = StatusLoading
	s.result = nil
	s.errMsg = ""

	return Ticket{Seq: s.seq, Mode: mode, Nickname: trimmed}, nil
}

// errModeMismatch is recorded when a fetcher hands back a record of the
// wrong shape for the ticket's mode.
var errModeMismatch = errors.New("lookup: record does not match requested mode")

// Complete applies the outcome of the submission identified by t. It returns
// false, leaving the state untouched, when t is stale.
func (s *State) Complete(t Ticket, rec model.Record, err error) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t.Seq != s.seq || s.status != StatusLoading {
		return false
	}

	// A record of the wrong shape, or a nil one (typed or not), would leave
	// Success with nothing to show. Both count as a failed fetch.
	if err == nil && (!model.Present(rec) || rec.Mode() != t.Mode) {
		err = apperror.FetchFailed(errModeMismatch)
	}

	if err != nil {
		s.status = StatusFailed
		s.result = nil
		s.errMsg = apperror.FetchFailedMessage
		return true
	}

	s.status = StatusSuccess
	s.result = rec
	s.errMsg = ""
	return true
}

// Snapshot returns a consistent copy of the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Nickname: s.nickname,
		Mode:     s.mode,
		Status:   s.status,
		Result:   s.result,
		Error:    s.errMsg,
		Seq:      s.seq,
	}
}
