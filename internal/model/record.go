// Package model defines the records fetched from GitHub and the lookup mode.
package model

// Record is either a *UserRecord or a *RepositoryRecord.
// The unexported method closes the set.
type Record interface {
	Mode() Mode
	record()
}

// UserRecord is the subset of GET /users/{username} that is displayed.
// Name is empty when the profile has no display name (GitHub sends null).
type UserRecord struct {
	Name        string `json:"name"`
	PublicRepos int    `json:"public_repos"`
}

func (*UserRecord) Mode() Mode { return ModeUser }
func (*UserRecord) record()    {}

// RepositoryRecord is the subset of GET /repos/{owner}/{repo} that is displayed.
type RepositoryRecord struct {
	FullName        string `json:"full_name"`
	StargazersCount int    `json:"stargazers_count"`
}

func (*RepositoryRecord) Mode() Mode { return ModeRepo }
func (*RepositoryRecord) record()    {}

// Present reports whether rec holds an actual record.
//
// NIL INTERFACES vs NIL POINTERS:
// A Record holding (*UserRecord)(nil) is not == nil: the interface carries a
// type with a nil value. Calling Mode() on it still works (pointer receiver,
// no field access), so a plain rec == nil check lets it through. Present
// looks inside the interface for both concrete types.
func Present(rec Record) bool {
	switch r := rec.(type) {
	case *UserRecord:
		return r != nil
	case *RepositoryRecord:
		return r != nil
	default:
		return false
	}
}
