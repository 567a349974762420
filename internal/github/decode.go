package github

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sakif/ghlookup/internal/model"
)

// ErrShapeMismatch means the body is valid JSON but not the record expected
// for the requested mode (for example a repository payload in user mode).
var ErrShapeMismatch = errors.New("github: response does not match expected record shape")

// Decode parses body as the record for mode.
//
// STRICT DECODING:
// json.Unmarshal into a struct is lenient: a missing field silently becomes
// its zero value, so a repository payload decoded in user mode would look
// like a user with no name and 0 repos. Decode reads the body into a map of
// raw values instead and checks each required field by hand:
//
//	user: name (string or null), public_repos (integer)
//	repo: full_name (string),    stargazers_count (integer)
//
// A missing field, a wrong JSON type or a null where null is not allowed
// returns ErrShapeMismatch. Extra fields are ignored; GitHub sends dozens.
func Decode(mode model.Mode, body []byte) (model.Record, error) {
	var f fields
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("github: decoding %s response: %w", mode, err)
	}
	if f == nil {
		return nil, fmt.Errorf("%w: body is null", ErrShapeMismatch)
	}

	switch mode {
	case model.ModeUser:
		name, err := f.str("name", true)
		if err != nil {
			return nil, err
		}
		repos, err := f.integer("public_repos")
		if err != nil {
			return nil, err
		}
		return &model.UserRecord{Name: name, PublicRepos: repos}, nil

	case model.ModeRepo:
		fullName, err := f.str("full_name", false)
		if err != nil {
			return nil, err
		}
		stars, err := f.integer("stargazers_count")
		if err != nil {
			return nil, err
		}
		return &model.RepositoryRecord{FullName: fullName, StargazersCount: stars}, nil

	default:
		return nil, fmt.Errorf("github: cannot decode unsupported mode %s", mode)
	}
}

// fields is a JSON object with its values left undecoded.
type fields map[string]json.RawMessage

func (f fields) raw(key string) (json.RawMessage, error) {
	raw, ok := f[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing field %q", ErrShapeMismatch, key)
	}
	return bytes.TrimSpace(raw), nil
}

// str reads a string field. GitHub sends null for unset profile names, so
// nullable fields map null to "".
func (f fields) str(key string, nullable bool) (string, error) {
	raw, err := f.raw(key)
	if err != nil {
		return "", err
	}
	if string(raw) == "null" {
		if nullable {
			return "", nil
		}
		return "", fmt.Errorf("%w: field %q is null", ErrShapeMismatch, key)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%w: field %q is not a string", ErrShapeMismatch, key)
	}
	return s, nil
}

// integer reads a numeric field. Floats and numeric strings are rejected.
func (f fields) integer(key string) (int, error) {
	raw, err := f.raw(key)
	if err != nil {
		return 0, err
	}
	var n int
	if string(raw) == "null" || json.Unmarshal(raw, &n) != nil {
		return 0, fmt.Errorf("%w: field %q is not an integer", ErrShapeMismatch, key)
	}
	return n, nil
}
