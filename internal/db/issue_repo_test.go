package db

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/buzz/internal/models"
)

func newIssueRepo(t *testing.T) (*IssueRepo, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(repoNow)
	return NewIssueRepo(NewTestDB(t).DB).WithClock(clock), clock
}

func createIssue(t *testing.T, repo *IssueRepo, title string, category models.Category, tags ...string) *models.Issue {
	t.Helper()
	issue := &models.Issue{
		Author:      "mona",
		Title:       title,
		Description: "details for " + title,
		Category:    category,
		Tags:        tags,
	}
	require.NoError(t, repo.Create(issue))
	return issue
}

func TestIssueRepo_CreateAndGet(t *testing.T) {
	repo, _ := newIssueRepo(t)

	issue := createIssue(t, repo, "Feed does not refresh", models.CategoryBug, "feed", "ui", "mobile")
	assert.NotZero(t, issue.ID)
	assert.Equal(t, models.StatusOpen, issue.Status)

	got, err := repo.GetByID(issue.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Feed does not refresh", got.Title)
	assert.Equal(t, models.CategoryBug, got.Category)
	assert.Equal(t, models.StatusOpen, got.Status)
	assert.Equal(t, []string{"feed", "ui", "mobile"}, got.Tags)
	assert.True(t, repoNow.Equal(got.CreatedAt))
}

func TestIssueRepo_CreateWithoutTags(t *testing.T) {
	repo, _ := newIssueRepo(t)

	issue := createIssue(t, repo, "How do I follow someone?", models.CategoryQuestion)

	got, err := repo.GetByID(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
}

func TestIssueRepo_CreateInvalid(t *testing.T) {
	repo, _ := newIssueRepo(t)

	err := repo.Create(&models.Issue{Author: "mona", Title: "no description"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid issue")
}

func TestIssueRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := newIssueRepo(t)

	got, err := repo.GetByID(7)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestIssueRepo_ListFilters(t *testing.T) {
	repo, clock := newIssueRepo(t)

	bug := createIssue(t, repo, "Crash on login", models.CategoryBug, "auth")
	clock.Advance(time.Minute)
	feature := createIssue(t, repo, "Dark mode", models.CategoryFeature, "ui")
	clock.Advance(time.Minute)
	createIssue(t, repo, "Where are settings?", models.CategoryQuestion, "ui", "docs")
	require.NoError(t, repo.UpdateStatus(bug.ID, models.StatusClosed))

	all, err := repo.List(IssueFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Where are settings?", all[0].Title)
	assert.Equal(t, []string{"ui", "docs"}, all[0].Tags)
	assert.Equal(t, []string{"auth"}, all[2].Tags)

	features, err := repo.List(IssueFilter{Category: models.CategoryFeature})
	require.NoError(t, err)
	require.Len(t, features, 1)
	assert.Equal(t, feature.ID, features[0].ID)

	closed, err := repo.List(IssueFilter{Status: models.StatusClosed})
	require.NoError(t, err)
	require.Len(t, closed, 1)
	assert.Equal(t, bug.ID, closed[0].ID)

	tagged, err := repo.List(IssueFilter{Tag: "ui"})
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	combined, err := repo.List(IssueFilter{Tag: "ui", Category: models.CategoryQuestion, Limit: 5})
	require.NoError(t, err)
	require.Len(t, combined, 1)
	assert.Equal(t, "Where are settings?", combined[0].Title)

	limited, err := repo.List(IssueFilter{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestIssueRepo_Search(t *testing.T) {
	repo, _ := newIssueRepo(t)

	createIssue(t, repo, "Notifications are late", models.CategoryBug, "realtime")
	createIssue(t, repo, "Export profile", models.CategoryFeature, "privacy")

	byTitle, err := repo.Search("notif", 0)
	require.NoError(t, err)
	require.Len(t, byTitle, 1)

	byTag, err := repo.Search("PRIV", 0)
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Equal(t, "Export profile", byTag[0].Title)

	byDescription, err := repo.Search("details for", 0)
	require.NoError(t, err)
	assert.Len(t, byDescription, 2)
}

func TestIssueRepo_UpdateStatus(t *testing.T) {
	repo, clock := newIssueRepo(t)
	issue := createIssue(t, repo, "Slow search", models.CategoryBug)
	clock.Advance(2 * time.Hour)

	require.NoError(t, repo.UpdateStatus(issue.ID, models.StatusInProgress))

	got, err := repo.GetByID(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusInProgress, got.Status)
	assert.True(t, repoNow.Add(2*time.Hour).Equal(got.UpdatedAt))

	assert.Error(t, repo.UpdateStatus(issue.ID, "Done"))
	err = repo.UpdateStatus(999, models.StatusClosed)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestIssueRepo_Like(t *testing.T) {
	repo, _ := newIssueRepo(t)
	issue := createIssue(t, repo, "Add emoji reactions", models.CategoryFeature)

	likes, err := repo.Like(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, likes)

	likes, err = repo.Like(issue.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, likes)

	_, err = repo.Like(404)
	assert.Error(t, err)
}

func TestMigrationStatus(t *testing.T) {
	database := NewTestDB(t)

	version, err := database.MigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)

	require.NoError(t, MigrateReset(database.DB))
	version, err = database.MigrationStatus()
	require.NoError(t, err)
	assert.Equal(t, int64(0), version)
}

func TestResolvePath(t *testing.T) {
	assert.Equal(t, "/tmp/buzz.db", ResolvePath("/tmp/buzz.db"))
	assert.NotContains(t, ResolvePath(""), "~")
	assert.Contains(t, ResolvePath(""), ".buzz")
}
