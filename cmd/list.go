package cmd

import (
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"linkhoard/internal/store"
)

var (
	listCategory      string
	listTag           string
	listUncategorized bool
	listLimit         int
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List bookmarks",
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		bookmarks, err := appInstance.Bookmarks.ListBookmarks(cmd.Context(), store.BookmarkFilter{
			Category:      listCategory,
			Tag:           listTag,
			Uncategorized: listUncategorized,
			Limit:         listLimit,
		})
		if err != nil {
			return err
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Title", "URL", "Category", "Tags"})
		table.SetBorder(true)
		for _, b := range bookmarks {
			table.Append([]string{
				b.ID,
				truncate(b.Title, 48),
				truncate(b.URL, 48),
				b.Category,
				strings.Join(b.Tags, ", "),
			})
		}
		table.Render()
		return nil
	},
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listCategory, "category", "", "Filter by category")
	listCmd.Flags().StringVar(&listTag, "tag", "", "Filter by tag")
	listCmd.Flags().BoolVar(&listUncategorized, "uncategorized", false, "Only uncategorized bookmarks")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum number of rows (0 = all)")
}
