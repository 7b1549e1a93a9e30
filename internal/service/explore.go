// Package service provides the read-side views buzz builds on top of the store.
package service

import (
	"database/sql"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/spetersoncode/buzz/internal/db"
	"github.com/spetersoncode/buzz/internal/models"
	"github.com/spetersoncode/buzz/internal/timeago"
)

// ItemKind tells posts and issues apart in a timeline.
type ItemKind string

const (
	KindPost  ItemKind = "post"
	KindIssue ItemKind = "issue"
)

// TimelineItem is one entry in a merged feed.
type TimelineItem struct {
	Kind      ItemKind      `json:"kind"`
	ID        int64         `json:"id"`
	Author    string        `json:"author"`
	Summary   string        `json:"summary"`
	Likes     int           `json:"likes"`
	CreatedAt time.Time     `json:"created_at"`
	Age       string        `json:"age"`
	Post      *models.Post  `json:"post,omitempty"`
	Issue     *models.Issue `json:"issue,omitempty"`
}

// ExploreService merges posts and issues into a single timeline.
type ExploreService struct {
	posts     *db.PostRepo
	issues    *db.IssueRepo
	formatter *timeago.Formatter
	logger    *zap.Logger
}

// NewExploreService creates an ExploreService. A nil logger is replaced
// with a no-op logger.
func NewExploreService(database *sql.DB, formatter *timeago.Formatter, logger *zap.Logger) *ExploreService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExploreService{
		posts:     db.NewPostRepo(database),
		issues:    db.NewIssueRepo(database),
		formatter: formatter,
		logger:    logger,
	}
}

// Feed returns the newest posts and issues, at most limit in total.
func (s *ExploreService) Feed(limit int) ([]TimelineItem, error) {
	posts, err := s.posts.List(limit)
	if err != nil {
		return nil, err
	}
	issues, err := s.issues.List(db.IssueFilter{Limit: limit})
	if err != nil {
		return nil, err
	}
	return s.merge(posts, issues, limit), nil
}

// Search returns posts and issues matching query, newest first.
func (s *ExploreService) Search(query string, limit int) ([]TimelineItem, error) {
	if query == "" {
		return s.Feed(limit)
	}
	posts, err := s.posts.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching posts: %w", err)
	}
	issues, err := s.issues.Search(query, limit)
	if err != nil {
		return nil, fmt.Errorf("searching issues: %w", err)
	}
	s.logger.Debug("explore search",
		zap.String("query", query),
		zap.Int("posts", len(posts)),
		zap.Int("issues", len(issues)))
	return s.merge(posts, issues, limit), nil
}

func (s *ExploreService) merge(posts []*models.Post, issues []*models.Issue, limit int) []TimelineItem {
	items := make([]TimelineItem, 0, len(posts)+len(issues))
	for _, p := range posts {
		items = append(items, TimelineItem{
			Kind:      KindPost,
			ID:        p.ID,
			Author:    p.Author,
			Summary:   p.Content,
			Likes:     p.Likes,
			CreatedAt: p.CreatedAt,
			Age:       s.formatter.FormatTime(p.CreatedAt),
			Post:      p,
		})
	}
	for _, i := range issues {
		items = append(items, TimelineItem{
			Kind:      KindIssue,
			ID:        i.ID,
			Author:    i.Author,
			Summary:   i.Title,
			Likes:     i.Likes,
			CreatedAt: i.CreatedAt,
			Age:       s.formatter.FormatTime(i.CreatedAt),
			Issue:     i,
		})
	}

	sort.SliceStable(items, func(a, b int) bool {
		return items[a].CreatedAt.After(items[b].CreatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items
}
