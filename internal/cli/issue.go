package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spetersoncode/buzz/internal/db"
	berrors "github.com/spetersoncode/buzz/internal/errors"
	"github.com/spetersoncode/buzz/internal/models"
	"github.com/spetersoncode/buzz/internal/state"
	"github.com/spetersoncode/buzz/internal/timeago"
)

var (
	issueAuthor      string
	issueDescription string
	issueCategory    string
	issueTags        string

	issueListCategory string
	issueListStatus   string
	issueListTag      string
	issueListLimit    int
)

var issueCmd = &cobra.Command{
	Use:   "issue",
	Short: "Issue management commands",
	Long:  `Report bugs, request features and ask questions.`,
}

var issueCreateCmd = &cobra.Command{
	Use:   "create <title>",
	Short: "Create a new issue",
	Long: `Create a new issue. Category defaults to Bug and status to Open.

Examples:
  buzz issue create "Login fails" --description "500 after submit" --tags auth,api
  buzz issue create "Dark mode?" -d "Any plans?" --category question`,
	Args: cobra.ExactArgs(1),
	RunE: runIssueCreate,
}

var issueListCmd = &cobra.Command{
	Use:   "list",
	Short: "List issues, newest first",
	Args:  cobra.NoArgs,
	RunE:  runIssueList,
}

var issueShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show issue details",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssueShow,
}

var issueStatusCmd = &cobra.Command{
	Use:   "status <id> <status>",
	Short: "Change the status of an issue",
	Long: `Change the status of an issue.

Valid statuses: open, in_progress, closed.`,
	Args: cobra.ExactArgs(2),
	RunE: runIssueStatus,
}

var issueLikeCmd = &cobra.Command{
	Use:   "like <id>",
	Short: "Add a like to an issue",
	Args:  cobra.ExactArgs(1),
	RunE:  runIssueLike,
}

func init() {
	issueCreateCmd.Flags().StringVar(&issueAuthor, "author", "", "Author name (default from config username)")
	issueCreateCmd.Flags().StringVarP(&issueDescription, "description", "d", "", "Issue description (required)")
	issueCreateCmd.Flags().StringVarP(&issueCategory, "category", "c", "bug", "Category: bug, feature, question")
	issueCreateCmd.Flags().StringVarP(&issueTags, "tags", "t", "", "Comma separated tags")

	issueListCmd.Flags().StringVarP(&issueListCategory, "category", "c", "", "Filter by category")
	issueListCmd.Flags().StringVarP(&issueListStatus, "status", "s", "", "Filter by status")
	issueListCmd.Flags().StringVar(&issueListTag, "tag", "", "Filter by tag")
	issueListCmd.Flags().IntVarP(&issueListLimit, "limit", "n", 20, "Maximum number of issues to show (0 for all)")

	issueCmd.AddCommand(issueCreateCmd)
	issueCmd.AddCommand(issueListCmd)
	issueCmd.AddCommand(issueShowCmd)
	issueCmd.AddCommand(issueStatusCmd)
	issueCmd.AddCommand(issueLikeCmd)

	rootCmd.AddCommand(issueCmd)
}

type issueView struct {
	*models.Issue
	Age string `json:"age"`
}

func runIssueCreate(cmd *cobra.Command, args []string) error {
	category, err := models.ParseCategory(issueCategory)
	if err != nil {
		return berrors.InvalidArgs("%s", err.Error())
	}

	issue := &models.Issue{
		Author:      authorName(issueAuthor),
		Title:       strings.TrimSpace(args[0]),
		Description: strings.TrimSpace(issueDescription),
		Category:    category,
		Tags:        models.ParseTags(issueTags),
	}
	if err := issue.Validate(); err != nil {
		return berrors.InvalidArgs("%s", err.Error()).
			WithSuggestion("Pass a description with --description.")
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	if err := db.NewIssueRepo(database.DB).Create(issue); err != nil {
		return berrors.WrapInternal(err, "failed to create issue")
	}

	if IsJSON() {
		return outputJSON(issueView{Issue: issue, Age: newFormatter().FormatTime(issue.CreatedAt)})
	}

	OutputLine("Created issue #%d: %s", issue.ID, issue.Title)
	OutputLine("Category: %s", issue.Category)
	if len(issue.Tags) > 0 {
		OutputLine("Tags: %s", strings.Join(issue.Tags, ", "))
	}
	return nil
}

func runIssueList(cmd *cobra.Command, args []string) error {
	filter := db.IssueFilter{Tag: strings.TrimSpace(issueListTag), Limit: issueListLimit}
	if issueListCategory != "" {
		category, err := models.ParseCategory(issueListCategory)
		if err != nil {
			return berrors.InvalidArgs("%s", err.Error())
		}
		filter.Category = category
	}
	if issueListStatus != "" {
		status, err := models.ParseStatus(issueListStatus)
		if err != nil {
			return berrors.InvalidArgs("%s", err.Error())
		}
		filter.Status = status
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	issues, err := db.NewIssueRepo(database.DB).List(filter)
	if err != nil {
		return berrors.WrapInternal(err, "failed to list issues")
	}

	f := newFormatter()
	if IsJSON() {
		views := make([]issueView, 0, len(issues))
		for _, i := range issues {
			views = append(views, issueView{Issue: i, Age: f.FormatTime(i.CreatedAt)})
		}
		return outputJSON(views)
	}

	if len(issues) == 0 {
		OutputLine("No issues found.")
		return nil
	}

	OutputLine("%-5s %-9s %-12s %-34s %-7s %s", "ID", "CATEGORY", "STATUS", "TITLE", "LIKES", "CREATED")
	OutputLine("%s", strings.Repeat("-", 90))
	for _, i := range issues {
		OutputLine("%-5d %-9s %-12s %-34s %-7s %s",
			i.ID,
			categoryLabel(i.Category),
			statusLabel(i.Status),
			truncate(i.Title, 34),
			humanizeCount(i.Likes),
			dim(f.FormatTime(i.CreatedAt)),
		)
	}
	return nil
}

func runIssueShow(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "issue")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	issue, err := db.NewIssueRepo(database.DB).GetByID(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to get issue")
	}
	if issue == nil {
		return berrors.NotFound("issue #%d not found", id).WithSuggestion(SuggestListIssues)
	}

	f := newFormatter()
	if IsJSON() {
		return outputJSON(issueView{Issue: issue, Age: f.FormatTime(issue.CreatedAt)})
	}

	printIssue(issue, f)
	return nil
}

func runIssueStatus(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "issue")
	if err != nil {
		return err
	}
	status, err := models.ParseStatus(args[1])
	if err != nil {
		return berrors.InvalidArgs("%s", err.Error())
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	repo := db.NewIssueRepo(database.DB)
	issue, err := repo.GetByID(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to get issue")
	}
	if issue == nil {
		return berrors.NotFound("issue #%d not found", id).WithSuggestion(SuggestListIssues)
	}

	previous := issue.Status
	machine := state.NewMachine()
	if err := machine.CanTransition(issue, status); err != nil {
		return berrors.StateError("issue #%d: %s", id, err.Error()).
			WithSuggestion(nextStatusSuggestion(previous))
	}
	if err := repo.UpdateStatus(id, status); err != nil {
		return berrors.WrapInternal(err, "failed to update issue")
	}
	logger.Debug("issue status changed",
		zap.Int64("issue", id),
		zap.String("action", string(machine.GetTransitionRule(previous, status).Action)))

	if IsJSON() {
		return outputJSON(map[string]interface{}{
			"id":              id,
			"previous_status": previous,
			"status":          status,
		})
	}
	OutputLine("Issue #%d: %s -> %s", id, previous, status)
	return nil
}

func runIssueLike(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0], "issue")
	if err != nil {
		return err
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	repo := db.NewIssueRepo(database.DB)
	issue, err := repo.GetByID(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to get issue")
	}
	if issue == nil {
		return berrors.NotFound("issue #%d not found", id).WithSuggestion(SuggestListIssues)
	}

	likes, err := repo.Like(id)
	if err != nil {
		return berrors.WrapInternal(err, "failed to like issue")
	}

	if IsJSON() {
		return outputJSON(map[string]interface{}{"id": id, "likes": likes})
	}
	OutputLine("Liked issue #%d (%s)", id, formatLikes(likes))
	return nil
}

func printIssue(i *models.Issue, f *timeago.Formatter) {
	OutputLine("%s", bold("Issue #"+strconv.FormatInt(i.ID, 10)+": "+i.Title))
	OutputLine("%s", strings.Repeat("=", 50))
	OutputLine("Author:   %s", i.Author)
	OutputLine("Category: %s", categoryLabel(i.Category))
	OutputLine("Status:   %s", statusLabel(i.Status))
	if len(i.Tags) > 0 {
		OutputLine("Tags:     %s", strings.Join(i.Tags, ", "))
	}
	if next := state.NewMachine().NextStatuses(i.Status); len(next) > 0 {
		OutputLine("Next:     %s", joinStatuses(next))
	}
	OutputLine("Likes:    %s", formatLikes(i.Likes))
	OutputLine("Created:  %s (%s)", f.FormatTime(i.CreatedAt), i.CreatedAt.Local().Format("2006-01-02 15:04"))
	if !i.UpdatedAt.Equal(i.CreatedAt) {
		OutputLine("Updated:  %s", f.FormatTime(i.UpdatedAt))
	}
	OutputLine("")
	OutputLine("%s", i.Description)
}

func nextStatusSuggestion(from models.Status) string {
	return fmt.Sprintf("From %s the issue can move to: %s.", from, joinStatuses(state.NewMachine().NextStatuses(from)))
}

func joinStatuses(statuses []models.Status) string {
	names := make([]string, len(statuses))
	for i, s := range statuses {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

func statusLabel(s models.Status) string {
	switch s {
	case models.StatusOpen:
		return colorize(ansiGreen, string(s))
	case models.StatusInProgress:
		return colorize(ansiCyan, string(s))
	case models.StatusClosed:
		return colorize(ansiRed, string(s))
	}
	return string(s)
}

func categoryLabel(c models.Category) string {
	switch c {
	case models.CategoryBug:
		return colorize(ansiRed, string(c))
	case models.CategoryFeature:
		return colorize(ansiMagenta, string(c))
	case models.CategoryQuestion:
		return colorize(ansiYellow, string(c))
	}
	return string(c)
}
