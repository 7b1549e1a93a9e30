package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/spetersoncode/buzz/internal/models"
)

const issueColumns = `i.id, i.author, i.title, i.description, i.category, i.status, i.likes, i.created_at, i.updated_at`

// IssueFilter narrows an issue listing. Zero values match everything.
type IssueFilter struct {
	Category models.Category
	Status   models.Status
	Tag      string
	Limit    int
}

// IssueRepo provides database operations for issues and their tags.
type IssueRepo struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewIssueRepo creates a new IssueRepo.
func NewIssueRepo(db *sql.DB) *IssueRepo {
	return &IssueRepo{db: db, clock: clockwork.NewRealClock()}
}

// WithClock sets the clock used for creation and update times.
func (r *IssueRepo) WithClock(c clockwork.Clock) *IssueRepo {
	r.clock = c
	return r
}

// Create stores a new issue together with its tags.
func (r *IssueRepo) Create(i *models.Issue) error {
	if err := i.Validate(); err != nil {
		return fmt.Errorf("invalid issue: %w", err)
	}

	now := r.clock.Now()
	if i.CreatedAt.IsZero() {
		i.CreatedAt = now
	}
	i.UpdatedAt = now
	if i.Tags == nil {
		i.Tags = []string{}
	}

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO issues (author, title, description, category, status, likes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	result, err := tx.Exec(query, i.Author, strings.TrimSpace(i.Title), strings.TrimSpace(i.Description),
		i.Category, i.Status, i.Likes, FormatTime(i.CreatedAt), FormatTime(i.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create issue: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get issue id: %w", err)
	}

	for pos, tag := range i.Tags {
		if _, err := tx.Exec(`INSERT OR IGNORE INTO issue_tags (issue_id, tag, position) VALUES (?, ?, ?)`,
			id, tag, pos); err != nil {
			return fmt.Errorf("failed to add tag %q: %w", tag, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit issue: %w", err)
	}
	i.ID = id
	i.Title = strings.TrimSpace(i.Title)
	i.Description = strings.TrimSpace(i.Description)
	return nil
}

// GetByID retrieves an issue with its tags, returning nil if it does not exist.
func (r *IssueRepo) GetByID(id int64) (*models.Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues i WHERE i.id = ?`
	issue, err := scanIssue(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan issue: %w", err)
	}
	if err := r.loadTags([]*models.Issue{issue}); err != nil {
		return nil, err
	}
	return issue, nil
}

// List returns issues matching filter, newest first.
func (r *IssueRepo) List(filter IssueFilter) ([]*models.Issue, error) {
	var where []string
	var args []any

	if filter.Category != "" {
		where = append(where, "i.category = ?")
		args = append(args, filter.Category)
	}
	if filter.Status != "" {
		where = append(where, "i.status = ?")
		args = append(args, filter.Status)
	}
	if filter.Tag != "" {
		where = append(where, "EXISTS (SELECT 1 FROM issue_tags t WHERE t.issue_id = i.id AND t.tag = ?)")
		args = append(args, filter.Tag)
	}

	query := `SELECT ` + issueColumns + ` FROM issues i`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY i.created_at DESC, i.id DESC LIMIT ?"
	args = append(args, sqlLimit(filter.Limit))

	return r.query(query, args...)
}

// Search returns issues whose title, description or any tag contains query,
// ignoring case.
func (r *IssueRepo) Search(query string, limit int) ([]*models.Issue, error) {
	pattern := likePattern(query)
	q := `
		SELECT ` + issueColumns + ` FROM issues i
		WHERE i.title LIKE ? ESCAPE '\'
		   OR i.description LIKE ? ESCAPE '\'
		   OR EXISTS (SELECT 1 FROM issue_tags t WHERE t.issue_id = i.id AND t.tag LIKE ? ESCAPE '\')
		ORDER BY i.created_at DESC, i.id DESC
		LIMIT ?
	`
	return r.query(q, pattern, pattern, pattern, sqlLimit(limit))
}

// UpdateStatus moves an issue to a new status.
func (r *IssueRepo) UpdateStatus(id int64, status models.Status) error {
	if !status.IsValid() {
		return fmt.Errorf("invalid status %q", status)
	}
	result, err := r.db.Exec(`UPDATE issues SET status = ?, updated_at = ? WHERE id = ?`,
		status, FormatTime(r.clock.Now()), id)
	if err != nil {
		return fmt.Errorf("failed to update issue status: %w", err)
	}
	return expectOneRow(result, "issue")
}

// Like adds a like to an issue and returns the new count.
func (r *IssueRepo) Like(id int64) (int, error) {
	result, err := r.db.Exec(`UPDATE issues SET likes = likes + 1, updated_at = ? WHERE id = ?`,
		FormatTime(r.clock.Now()), id)
	if err != nil {
		return 0, fmt.Errorf("failed to like issue: %w", err)
	}
	if err := expectOneRow(result, "issue"); err != nil {
		return 0, err
	}
	var likes int
	if err := r.db.QueryRow(`SELECT likes FROM issues WHERE id = ?`, id).Scan(&likes); err != nil {
		return 0, fmt.Errorf("failed to read likes: %w", err)
	}
	return likes, nil
}

func (r *IssueRepo) query(query string, args ...any) ([]*models.Issue, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list issues: %w", err)
	}
	defer rows.Close()

	var issues []*models.Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan issue: %w", err)
		}
		issues = append(issues, issue)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating issues: %w", err)
	}
	rows.Close()

	if err := r.loadTags(issues); err != nil {
		return nil, err
	}
	return issues, nil
}

// loadTags fills Tags for every issue in one query.
func (r *IssueRepo) loadTags(issues []*models.Issue) error {
	if len(issues) == 0 {
		return nil
	}

	byID := make(map[int64]*models.Issue, len(issues))
	placeholders := make([]string, len(issues))
	args := make([]any, len(issues))
	for n, issue := range issues {
		issue.Tags = []string{}
		byID[issue.ID] = issue
		placeholders[n] = "?"
		args[n] = issue.ID
	}

	query := `SELECT issue_id, tag FROM issue_tags WHERE issue_id IN (` +
		strings.Join(placeholders, ", ") + `) ORDER BY issue_id, position`
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var tag string
		if err := rows.Scan(&id, &tag); err != nil {
			return fmt.Errorf("failed to scan tag: %w", err)
		}
		if issue, ok := byID[id]; ok {
			issue.Tags = append(issue.Tags, tag)
		}
	}
	return rows.Err()
}

func scanIssue(row rowScanner) (*models.Issue, error) {
	var i models.Issue
	err := row.Scan(&i.ID, &i.Author, &i.Title, &i.Description, &i.Category, &i.Status,
		&i.Likes, &i.CreatedAt, &i.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func expectOneRow(result sql.Result, what string) error {
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%s not found", what)
	}
	return nil
}
