// Package card turns a fetched record into its display form.
//
// A Card is a title plus fixed-label lines. The HTML page and the terminal
// renderer both consume Cards, so the labels live in exactly one place.
package card

import (
	"strconv"

	"github.com/sakif/ghlookup/internal/model"
)

// Line is one "Label: Value" row of a card.
type Line struct {
	Label string
	Value string
}

// Card is the display form of one record.
type Card interface {
	Title() string
	Lines() []Line
}

// UserCard displays a UserRecord.
type UserCard struct {
	User *model.UserRecord
}

// Title is the card heading.
func (UserCard) Title() string { return "User Info" }

// Lines returns the display name and the public repository count.
// An unnamed profile shows an empty Full Name.
func (c UserCard) Lines() []Line {
	return []Line{
		{Label: "Full Name", Value: c.User.Name},
		{Label: "Number of Repositories", Value: strconv.Itoa(c.User.PublicRepos)},
	}
}

// RepoCard displays a RepositoryRecord.
type RepoCard struct {
	Repo *model.RepositoryRecord
}

// Title is the card heading.
func (RepoCard) Title() string { return "Repo Info" }

// Lines returns the owner/name pair and the stargazer count.
func (c RepoCard) Lines() []Line {
	return []Line{
		{Label: "Repository Name", Value: c.Repo.FullName},
		{Label: "Number of Stars", Value: strconv.Itoa(c.Repo.StargazersCount)},
	}
}

// For picks the card variant for rec. It returns nil when there is nothing
// to show, including a typed nil record (see model.Present).
func For(rec model.Record) Card {
	if !model.Present(rec) {
		return nil
	}
	switch r := rec.(type) {
	case *model.UserRecord:
		return UserCard{User: r}
	case *model.RepositoryRecord:
		return RepoCard{Repo: r}
	default:
		return nil
	}
}
