package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/spetersoncode/buzz/internal/db"
	berrors "github.com/spetersoncode/buzz/internal/errors"
	"github.com/spetersoncode/buzz/internal/models"
	"github.com/spetersoncode/buzz/internal/timeago"
)

var (
	postAuthor string
	postLimit  int
)

var postCmd = &cobra.Command{
	Use:   "post",
	Short: "Post management commands",
	Long:  `Create, list, show, like and delete posts.`,
}

var postCreateCmd = &cobra.Command{
	Use:   "create <content>",
	Short: "Create a new post",
	Long: `Create a new post. Content is limited to 500 characters.

Examples:
  buzz post create "Shipped the Go rewrite"
  buzz post create "Hello" --author octocat`,
	Args: cobra.ExactArgs(1),
	RunE: runPostCreate,
}

var postListCmd = &cobra.Command{
	Use:   "list",
	Short: "List posts, newest first",
	Args:  cobra.NoArgs,
	RunE:  runPostList,
}

var postShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show post details",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostShow,
}

var postLikeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Like or unlike a post",
	Long:  `Toggle your like on a post. Running it again removes the like.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runPostLike,
}

var postDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a post",
	Args:  cobra.ExactArgs(1),
	RunE:  runPostDelete,
}

func init() {
	postCreateCmd.Flags().StringVar(&postAuthor, "author", "", "Author name (default from config username)")
	postListCmd.Flags().IntVarP(&postLimit, "limit", "n", 20, "Maximum number of posts to show (0 for all)")

	postCmd.AddCommand(postCreateCmd)
	postCmd.AddCommand(postListCmd)
	postCmd.AddCommand(postShowCmd)
	postCmd.AddCommand(postLikeCmd)
	postCmd.AddCommand(postDeleteCmd)

	rootCmd.AddCommand(postCmd)
}

// postView is a post with its relative age, as shown in JSON output.
type postView struct {
	*models.Post
	Age string `json:"age"`
}

func runPostCreate(cmd *cobra.Command, args []string) error {
	post := &models.Post{
		Author:  authorName(postAuthor),
		Content: args[0],
	}
	if err := post.Validate(); err != nil {
		return berrors.InvalidArgs("%s", err.Error())
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewPostRepo(database.DB).Create(post); err != nil {
		return berrors.WrapInternal(err, "failed to create post")
	}

	f := newFormatter()
	if IsJSON() {
		return outputJSON(postView{Post: post, Age: f.FormatTime(post.CreatedAt)})
	}

	OutputLine("Created post #%d", post.ID)
	return nil
}

func runPostList(cmd *cobra.Command, args []string) error {
	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	posts, err := db.NewPostRepo(database.DB).List(postLimit)
	if err != nil {
		return berrors.WrapInternal(err, "failed to list posts")
	}

	f := newFormatter()
	if IsJSON() {
		views := make([]postView, 0, len(posts))
		for _, p := range posts {
			views = append(views, postView{Post: p, Age: f.FormatTime(p.CreatedAt)})
		}
		return outputJSON(views)
	}

	if len(posts) == 0 {
		OutputLine("No posts found.")
		return nil
	}

	OutputLine("%-5s %-14s %-40s %-10s %s", "ID", "AUTHOR", "CONTENT", "LIKES", "CREATED")
	OutputLine("%s", strings.Repeat("-", 90))
	for _, p := range posts {
		OutputLine("%-5d %-14s %-40s %-10s %s",
			p.ID,
			truncate(p.Author, 14),
			truncate(p.Content, 40),
			humanizeCount(p.Likes),
			dim(f.FormatTime(p.CreatedAt)),
		)
	}
	return nil
}

func runPostShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	post, err := db.NewPostRepo(database.DB).GetByID(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to get post")
	}
	if post == nil {
		return berrors.NotFound("post #%d not found", id).WithSuggestion(SuggestListPosts)
	}

	f := newFormatter()
	if IsJSON() {
		return outputJSON(postView{Post: post, Age: f.FormatTime(post.CreatedAt)})
	}

	printPost(post, f)
	return nil
}

func runPostLike(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	post, err := db.NewPostRepo(database.DB).ToggleLike(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to like post")
	}
	if post == nil {
		return berrors.NotFound("post #%d not found", id).WithSuggestion(SuggestListPosts)
	}

	if IsJSON() {
		return outputJSON(postView{Post: post, Age: newFormatter().FormatTime(post.CreatedAt)})
	}

	verb := "Liked"
	if !post.Liked {
		verb = "Unliked"
	}
	OutputLine("%s post #%d (%s)", verb, post.ID, formatLikes(post.Likes))
	return nil
}

func runPostDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "post")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	repo := db.NewPostRepo(database.DB)
	post, err := repo.GetByID(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to get post")
	}
	if post == nil {
		return berrors.NotFound("post #%d not found", id).WithSuggestion(SuggestListPosts)
	}
	if err := repo.Delete(id); err != nil {
		return berrors.WrapInternal(err, "failed to delete post")
	}

	if IsJSON() {
		return outputJSON(map[string]interface{}{"id": id, "deleted": true})
	}
	OutputLine("Deleted post #%d", id)
	return nil
}

func printPost(p *models.Post, f *timeago.Formatter) {
	OutputLine("%s", bold("Post #"+strconv.FormatInt(p.ID, 10)))
	OutputLine("%s", strings.Repeat("=", 50))
	OutputLine("Author:  %s", p.Author)
	OutputLine("Likes:   %s", formatLikes(p.Likes))
	if p.Liked {
		OutputLine("         %s", colorize(ansiGreen, "liked by you"))
	}
	OutputLine("Created: %s (%s)", f.FormatTime(p.CreatedAt), p.CreatedAt.Local().Format("2006-01-02 15:04"))
	OutputLine("")
	OutputLine("%s", p.Content)
}

// parseID reads a numeric id, with or without a leading '#'.
func parseID(s, what string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 64)
	if err != nil || id < 1 {
		return 0, berrors.InvalidArgs("invalid %s id %q", what, s)
	}
	return id, nil
}

// authorName returns flag if set, otherwise the configured username.
func authorName(flag string) string {
	if strings.TrimSpace(flag) != "" {
		return flag
	}
	return GetConfig().Username
}
