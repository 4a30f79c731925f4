package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"linkhoard/internal/models"
)

var tagCmd = &cobra.Command{
	Use:   "tag <id> <tag>...",
	Short: "Add tags to a bookmark",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		id := args[0]
		// Reuse ApplyClassifications so tag-union semantics live in one
		// place; the current category is re-read and preserved.
		b, err := appInstance.Bookmarks.GetBookmark(cmd.Context(), id)
		if err != nil {
			return err
		}

		tags := make([]string, 0, len(args)-1)
		for _, t := range args[1:] {
			tags = append(tags, strings.ToLower(strings.TrimSpace(t)))
		}

		if _, err := appInstance.Bookmarks.ApplyClassifications(cmd.Context(), []models.Classification{
			{BookmarkID: id, Category: b.Category, Tags: tags},
		}); err != nil {
			return fmt.Errorf("failed to tag bookmark: %w", err)
		}

		updated, err := appInstance.Bookmarks.GetBookmark(cmd.Context(), id)
		if err != nil {
			return err
		}
		fmt.Printf("Tags for %s: %s\n", id, strings.Join(updated.Tags, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(tagCmd)
}
