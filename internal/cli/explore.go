package cli

import (
	"strings"

	"github.com/spf13/cobra"

	berrors "github.com/spetersoncode/buzz/internal/errors"
	"github.com/spetersoncode/buzz/internal/service"
)

var exploreLimit int

var exploreCmd = &cobra.Command{
	Use:   "explore [query]",
	Short: "Show posts and issues in one timeline",
	Long: `Show the newest posts and issues together, newest first.

With a query, only posts whose content or author matches and issues whose
title, description or tags match are shown.

Examples:
  buzz explore
  buzz explore golang --limit 5`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExplore,
}

func init() {
	exploreCmd.Flags().IntVarP(&exploreLimit, "limit", "n", 20, "Maximum number of items to show (0 for all)")
	rootCmd.AddCommand(exploreCmd)
}

func runExplore(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) == 1 {
		query = strings.TrimSpace(args[0])
	}

	database, err := openDB()
	if err != nil {
		return err
	}
	defer database.Close()

	svc := service.NewExploreService(database.DB, newFormatter(), logger)
	items, err := svc.Search(query, exploreLimit)
	if err != nil {
		return berrors.WrapInternal(err, "failed to load timeline")
	}

	if IsJSON() {
		return outputJSON(items)
	}

	if len(items) == 0 {
		if query != "" {
			OutputLine("Nothing matches %q.", query)
		} else {
			OutputLine("Nothing here yet. Create a post with 'buzz post create'.")
		}
		return nil
	}

	for _, item := range items {
		kind := colorize(ansiCyan, string(item.Kind))
		OutputLine("%-5s #%-4d %s  %s", kind, item.ID, bold(item.Author), dim(item.Age))
		OutputLine("      %s", truncate(item.Summary, 72))
		if item.Likes > 0 {
			OutputLine("      %s", formatLikes(item.Likes))
		}
	}
	return nil
}
