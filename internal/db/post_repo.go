package db

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/jonboulle/clockwork"

	"github.com/spetersoncode/buzz/internal/models"
)

const postColumns = `id, author, content, likes, liked, created_at, updated_at`

// PostRepo provides database operations for posts.
type PostRepo struct {
	db    *sql.DB
	clock clockwork.Clock
}

// NewPostRepo creates a new PostRepo.
func NewPostRepo(db *sql.DB) *PostRepo {
	return &PostRepo{db: db, clock: clockwork.NewRealClock()}
}

// WithClock sets the clock used for creation and update times.
func (r *PostRepo) WithClock(c clockwork.Clock) *PostRepo {
	r.clock = c
	return r
}

// Create stores a new post. A zero CreatedAt is set to now; a non-zero one is
// kept so posts fetched from elsewhere retain their original time.
func (r *PostRepo) Create(p *models.Post) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid post: %w", err)
	}

	now := r.clock.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.Content = strings.TrimSpace(p.Content)

	query := `
		INSERT INTO posts (author, content, likes, liked, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(query, p.Author, p.Content, p.Likes, p.Liked,
		FormatTime(p.CreatedAt), FormatTime(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get post id: %w", err)
	}
	p.ID = id
	return nil
}

// GetByID retrieves a post, returning nil if it does not exist.
func (r *PostRepo) GetByID(id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = ?`
	return r.scanOne(r.db.QueryRow(query, id))
}

// List returns posts newest first. A limit of zero or less returns all posts.
func (r *PostRepo) List(limit int) ([]*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC LIMIT ?`
	rows, err := r.db.Query(query, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// Search returns posts whose content or author contains query, ignoring case.
func (r *PostRepo) Search(query string, limit int) ([]*models.Post, error) {
	pattern := likePattern(query)
	q := `
		SELECT ` + postColumns + ` FROM posts
		WHERE content LIKE ? ESCAPE '\' OR author LIKE ? ESCAPE '\'
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(q, pattern, pattern, sqlLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to search posts: %w", err)
	}
	defer rows.Close()
	return r.scanMany(rows)
}

// ToggleLike flips the like on a post and returns the updated post, or nil
// if the post does not exist.
func (r *PostRepo) ToggleLike(id int64) (*models.Post, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	p, err := r.scanOne(tx.QueryRow(`SELECT `+postColumns+` FROM posts WHERE id = ?`, id))
	if err != nil || p == nil {
		return nil, err
	}

	p.ToggleLike()
	p.UpdatedAt = r.clock.Now()

	_, err = tx.Exec(`UPDATE posts SET likes = ?, liked = ?, updated_at = ? WHERE id = ?`,
		p.Likes, p.Liked, FormatTime(p.UpdatedAt), p.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to update likes: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit like: %w", err)
	}
	return p, nil
}

// Delete removes a post.
func (r *PostRepo) Delete(id int64) error {
	result, err := r.db.Exec(`DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("post not found")
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var p models.Post
	err := row.Scan(&p.ID, &p.Author, &p.Content, &p.Likes, &p.Liked, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PostRepo) scanOne(row *sql.Row) (*models.Post, error) {
	p, err := scanPost(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan post: %w", err)
	}
	return p, nil
}

func (r *PostRepo) scanMany(rows *sql.Rows) ([]*models.Post, error) {
	var posts []*models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating posts: %w", err)
	}
	return posts, nil
}

// sqlLimit maps "no limit" to SQLite's -1.
func sqlLimit(limit int) int {
	if limit <= 0 {
		return -1
	}
	return limit
}

// likePattern builds a substring LIKE pattern with wildcards in s escaped.
func likePattern(s string) string {
	escaped := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(strings.TrimSpace(s))
	return "%" + escaped + "%"
}
