package db

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spetersoncode/buzz/internal/models"
)

var repoNow = time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

func newPostRepo(t *testing.T) (*PostRepo, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(repoNow)
	return NewPostRepo(NewTestDB(t).DB).WithClock(clock), clock
}

func TestPostRepo_CreateAndGet(t *testing.T) {
	repo, _ := newPostRepo(t)

	p := &models.Post{Author: "mona", Content: "  hello buzz  "}
	require.NoError(t, repo.Create(p))
	assert.NotZero(t, p.ID)
	assert.Equal(t, "hello buzz", p.Content)
	assert.True(t, repo.clock.Now().Equal(p.CreatedAt))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "mona", got.Author)
	assert.Equal(t, "hello buzz", got.Content)
	assert.Equal(t, 0, got.Likes)
	assert.False(t, got.Liked)
	assert.True(t, repoNow.Equal(got.CreatedAt), "created_at %v", got.CreatedAt)
}

func TestPostRepo_CreateKeepsTimestamp(t *testing.T) {
	repo, _ := newPostRepo(t)
	posted := repoNow.Add(-72 * time.Hour)

	p := &models.Post{Author: "mona", Content: "old news", CreatedAt: posted}
	require.NoError(t, repo.Create(p))

	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.True(t, posted.Equal(got.CreatedAt))
	assert.True(t, repoNow.Equal(got.UpdatedAt))
}

func TestPostRepo_CreateInvalid(t *testing.T) {
	repo, _ := newPostRepo(t)

	err := repo.Create(&models.Post{Author: "mona", Content: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid post")
}

func TestPostRepo_GetByID_NotFound(t *testing.T) {
	repo, _ := newPostRepo(t)

	got, err := repo.GetByID(999)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepo_ListNewestFirst(t *testing.T) {
	repo, clock := newPostRepo(t)

	for _, content := range []string{"first", "second", "third"} {
		require.NoError(t, repo.Create(&models.Post{Author: "mona", Content: content}))
		clock.Advance(time.Minute)
	}

	posts, err := repo.List(0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, "third", posts[0].Content)
	assert.Equal(t, "first", posts[2].Content)

	limited, err := repo.List(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestPostRepo_ToggleLike(t *testing.T) {
	repo, clock := newPostRepo(t)

	p := &models.Post{Author: "mona", Content: "like me", Likes: 5}
	require.NoError(t, repo.Create(p))
	clock.Advance(time.Hour)

	liked, err := repo.ToggleLike(p.ID)
	require.NoError(t, err)
	assert.True(t, liked.Liked)
	assert.Equal(t, 6, liked.Likes)
	assert.True(t, repoNow.Add(time.Hour).Equal(liked.UpdatedAt))

	unliked, err := repo.ToggleLike(p.ID)
	require.NoError(t, err)
	assert.False(t, unliked.Liked)
	assert.Equal(t, 5, unliked.Likes)

	stored, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, stored.Likes)
	assert.False(t, stored.Liked)
}

func TestPostRepo_ToggleLike_NotFound(t *testing.T) {
	repo, _ := newPostRepo(t)

	got, err := repo.ToggleLike(42)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestPostRepo_Search(t *testing.T) {
	repo, clock := newPostRepo(t)

	require.NoError(t, repo.Create(&models.Post{Author: "mona", Content: "Learning Go generics"}))
	clock.Advance(time.Minute)
	require.NoError(t, repo.Create(&models.Post{Author: "gopher", Content: "lunch break"}))
	clock.Advance(time.Minute)
	require.NoError(t, repo.Create(&models.Post{Author: "ada", Content: "100% coverage_done"}))

	byContent, err := repo.Search("go", 0)
	require.NoError(t, err)
	require.Len(t, byContent, 2)
	assert.Equal(t, "gopher", byContent[0].Author)
	assert.Equal(t, "mona", byContent[1].Author)

	literal, err := repo.Search("100%", 0)
	require.NoError(t, err)
	require.Len(t, literal, 1)

	underscore, err := repo.Search("e_d", 0)
	require.NoError(t, err)
	require.Len(t, underscore, 1)
	assert.Equal(t, "ada", underscore[0].Author)

	// An unescaped _ would match the space in "lunch break".
	wildcard, err := repo.Search("h_b", 0)
	require.NoError(t, err)
	assert.Empty(t, wildcard)

	none, err := repo.Search("rust", 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPostRepo_Delete(t *testing.T) {
	repo, _ := newPostRepo(t)

	p := &models.Post{Author: "mona", Content: "temporary"}
	require.NoError(t, repo.Create(p))

	require.NoError(t, repo.Delete(p.ID))
	got, err := repo.GetByID(p.ID)
	require.NoError(t, err)
	assert.Nil(t, got)

	err = repo.Delete(p.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}
