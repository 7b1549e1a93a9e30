package models

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MaxPostLength is the longest post content accepted, in characters.
const MaxPostLength = 500

// Post is a short status update shown in the feed.
type Post struct {
	ID        int64     `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	Likes     int       `json:"likes"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks the post before it is stored.
func (p *Post) Validate() error {
	content := strings.TrimSpace(p.Content)
	if content == "" {
		return fmt.Errorf("post content cannot be empty")
	}
	if n := utf8.RuneCountInString(content); n > MaxPostLength {
		return fmt.Errorf("post content is %d characters, the limit is %d", n, MaxPostLength)
	}
	if strings.TrimSpace(p.Author) == "" {
		return fmt.Errorf("post author cannot be empty")
	}
	return nil
}

// ToggleLike flips the viewer's like and adjusts the counter to match.
// The counter never drops below zero.
func (p *Post) ToggleLike() {
	if p.Liked {
		p.Liked = false
		if p.Likes > 0 {
			p.Likes--
		}
		return
	}
	p.Liked = true
	p.Likes++
}
