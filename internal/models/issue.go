package models

import (
	"fmt"
	"strings"
	"time"
)

// Issue is a bug report, feature request or question.
type Issue struct {
	ID          int64     `json:"id"`
	Author      string    `json:"author"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Status      Status    `json:"status"`
	Tags        []string  `json:"tags"`
	Likes       int       `json:"likes"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate checks the issue before it is stored. Empty category and status
// are filled with Bug and Open.
func (i *Issue) Validate() error {
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("issue title cannot be empty")
	}
	if strings.TrimSpace(i.Description) == "" {
		return fmt.Errorf("issue description cannot be empty")
	}
	if strings.TrimSpace(i.Author) == "" {
		return fmt.Errorf("issue author cannot be empty")
	}
	if i.Category == "" {
		i.Category = CategoryBug
	}
	if !i.Category.IsValid() {
		return fmt.Errorf("invalid category %q", i.Category)
	}
	if i.Status == "" {
		i.Status = StatusOpen
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status %q", i.Status)
	}
	return nil
}

// ParseTags splits a comma separated tag list. Tags are trimmed, empty
// entries are dropped and repeats keep their first position.
func ParseTags(s string) []string {
	tags := []string{}
	seen := make(map[string]bool)
	for _, part := range strings.Split(s, ",") {
		tag := strings.TrimSpace(part)
		if tag == "" || seen[tag] {
			continue
		}
		seen[tag] = true
		tags = append(tags, tag)
	}
	return tags
}
