// Package models defines the domain models for buzz.
package models

import (
	"fmt"
	"strings"
)

// Category classifies an issue.
type Category string

const (
	CategoryBug      Category = "Bug"
	CategoryFeature  Category = "Feature"
	CategoryQuestion Category = "Question"
)

// AllCategories lists categories in display order.
var AllCategories = []Category{CategoryBug, CategoryFeature, CategoryQuestion}

// IsValid returns true if c is a known category.
func (c Category) IsValid() bool {
	switch c {
	case CategoryBug, CategoryFeature, CategoryQuestion:
		return true
	}
	return false
}

// ParseCategory parses a category name case-insensitively.
func ParseCategory(s string) (Category, error) {
	for _, c := range AllCategories {
		if strings.EqualFold(strings.TrimSpace(s), string(c)) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (valid: bug, feature, question)", s)
}

// Status is the lifecycle state of an issue.
type Status string

const (
	StatusOpen       Status = "Open"
	StatusInProgress Status = "In Progress"
	StatusClosed     Status = "Closed"
)

// AllStatuses lists statuses in lifecycle order.
var AllStatuses = []Status{StatusOpen, StatusInProgress, StatusClosed}

// IsValid returns true if s is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusClosed:
		return true
	}
	return false
}

// ParseStatus parses a status name case-insensitively. "in_progress",
// "in-progress" and "in progress" all mean StatusInProgress.
func ParseStatus(s string) (Status, error) {
	normalized := strings.ToLower(strings.TrimSpace(s))
	normalized = strings.NewReplacer("_", " ", "-", " ").Replace(normalized)
	for _, st := range AllStatuses {
		if normalized == strings.ToLower(string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (valid: open, in_progress, closed)", s)
}
