package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/fetch"
	"linkhoard/internal/models"
)

var (
	addTitle    string
	addCategory string
	addTags     []string
	addNoFetch  bool
)

var addCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a bookmark",
	Long: `Adds a bookmark. When no --title is given the page is fetched and its
<title> is used; if that fails the URL itself becomes the title.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}
		url := args[0]

		title := addTitle
		if title == "" && !addNoFetch {
			fetched, err := fetch.Title(cmd.Context(), url)
			if err != nil {
				log.Warnf("Could not fetch page title: %v", err)
			}
			title = fetched
		}
		if title == "" {
			title = url
		}

		b := &models.Bookmark{
			ID:       uuid.NewString(),
			Title:    title,
			URL:      url,
			Category: addCategory,
			Tags:     addTags,
		}
		if err := appInstance.Bookmarks.CreateBookmark(cmd.Context(), b); err != nil {
			return fmt.Errorf("failed to add bookmark: %w", err)
		}

		color.Green("Added bookmark %s", b.ID)
		fmt.Printf("  %s\n  %s\n", b.Title, b.URL)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVar(&addTitle, "title", "", "Bookmark title (skips page fetch)")
	addCmd.Flags().StringVar(&addCategory, "category", "", "Category to assign")
	addCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tag to assign (repeatable)")
	addCmd.Flags().BoolVar(&addNoFetch, "no-fetch", false, "Do not fetch the page for a title")
}
