// Package backup keeps rotating copies of the buzz database.
//
// Backups are named buzz.db.bak.1, buzz.db.bak.2 and so on, with 1 the most
// recent. A new copy is taken when the newest one is older than the
// configured interval.
package backup

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/spetersoncode/buzz/internal/config"
)

// Prefix is the file name prefix of every backup.
const Prefix = "buzz.db.bak."

// Manager creates and rotates backups of a single database file.
type Manager struct {
	dbPath string
	dir    string
	cfg    config.BackupConfig
	clock  clockwork.Clock
}

// NewManager creates a Manager for dbPath. Backups go to cfg.Path, or next to
// the database when it is empty.
func NewManager(dbPath string, cfg config.BackupConfig) *Manager {
	dir := cfg.Path
	if dir == "" {
		dir = filepath.Dir(dbPath)
	}
	return &Manager{dbPath: dbPath, dir: dir, cfg: cfg, clock: clockwork.NewRealClock()}
}

// WithClock sets the clock used to judge backup age.
func (m *Manager) WithClock(c clockwork.Clock) *Manager {
	m.clock = c
	return m
}

// Dir returns the directory backups are written to.
func (m *Manager) Dir() string {
	return m.dir
}

// BackupIfNeeded copies the database when backups are enabled, the database
// exists and the newest backup is stale. It returns the new backup's path, or
// "" when nothing was done.
func (m *Manager) BackupIfNeeded() (string, error) {
	if !m.cfg.Enabled {
		return "", nil
	}
	if _, err := os.Stat(m.dbPath); os.IsNotExist(err) {
		return "", nil
	}

	backups, err := m.List()
	if err != nil {
		return "", err
	}
	if len(backups) > 0 {
		info, err := os.Stat(backups[0])
		if err != nil {
			return "", fmt.Errorf("stat backup: %w", err)
		}
		interval := time.Duration(m.cfg.IntervalHours) * time.Hour
		if m.clock.Since(info.ModTime()) <= interval && interval > 0 {
			return "", nil
		}
	}

	return m.create(backups)
}

// List returns existing backup paths, newest first.
func (m *Manager) List() ([]string, error) {
	entries, err := os.ReadDir(m.dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading backup directory: %w", err)
	}

	numbers := make(map[string]int)
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasPrefix(entry.Name(), Prefix) {
			continue
		}
		n, err := strconv.Atoi(strings.TrimPrefix(entry.Name(), Prefix))
		if err != nil || n < 1 {
			continue
		}
		path := filepath.Join(m.dir, entry.Name())
		numbers[path] = n
		paths = append(paths, path)
	}
	sort.Slice(paths, func(i, j int) bool { return numbers[paths[i]] < numbers[paths[j]] })
	return paths, nil
}

func (m *Manager) create(existing []string) (string, error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return "", fmt.Errorf("creating backup directory: %w", err)
	}

	// Shift oldest first so no rename overwrites a file still to be moved.
	for i := len(existing) - 1; i >= 0; i-- {
		n, _ := strconv.Atoi(strings.TrimPrefix(filepath.Base(existing[i]), Prefix))
		if n+1 > m.cfg.MaxCount {
			if err := os.Remove(existing[i]); err != nil && !os.IsNotExist(err) {
				return "", fmt.Errorf("removing old backup: %w", err)
			}
			continue
		}
		next := filepath.Join(m.dir, Prefix+strconv.Itoa(n+1))
		if err := os.Rename(existing[i], next); err != nil {
			return "", fmt.Errorf("rotating backup: %w", err)
		}
	}

	path := filepath.Join(m.dir, Prefix+"1")
	if err := copyFile(m.dbPath, path); err != nil {
		return "", fmt.Errorf("copying database: %w", err)
	}
	return path, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_RDWR|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
