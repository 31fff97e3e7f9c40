package domain

import (
	"errors"
	"strings"
)

var ErrInvalidQuery = errors.New("domain: title and artist are required")

// SongQuery identifies the song a caller wants analyzed.
type SongQuery struct {
	Title  string
	Artist string
}

// NewSongQuery trims both fields and rejects queries that are empty after trimming.
func NewSongQuery(title, artist string) (SongQuery, error) {
	q := SongQuery{
		Title:  strings.TrimSpace(title),
		Artist: strings.TrimSpace(artist),
	}
	if q.Title == "" || q.Artist == "" {
		return SongQuery{}, ErrInvalidQuery
	}
	return q, nil
}

// LyricText holds lyrics for a single pipeline invocation.
type LyricText struct {
	Raw         string
	Normalized  string
	SourceFound bool
	SourceURL   string // canonical lyrics page, when known
}
