package model

import (
	"fmt"
	"strings"
)

// Mode selects which GitHub endpoint is queried and which record shape is expected.
type Mode int

const (
	ModeUser Mode = iota // default
	ModeRepo
)

// Modes lists every mode in selector order.
var Modes = []Mode{ModeUser, ModeRepo}

// String returns the wire value used in forms, JSON and CLI flags.
func (m Mode) String() string {
	switch m {
	case ModeUser:
		return "user"
	case ModeRepo:
		return "repo"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// Label is the human-readable option text shown in the selector.
func (m Mode) Label() string {
	switch m {
	case ModeUser:
		return "User"
	case ModeRepo:
		return "Repo"
	default:
		return m.String()
	}
}

// ParseMode accepts the wire value (case-insensitive). An empty string is ModeUser.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "user":
		return ModeUser, nil
	case "repo":
		return ModeRepo, nil
	default:
		return ModeUser, fmt.Errorf("unknown mode %q", s)
	}
}

// MarshalText lets Mode appear as "user"/"repo" in JSON and YAML.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Mode) UnmarshalText(b []byte) error {
	parsed, err := ParseMode(string(b))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
