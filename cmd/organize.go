package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	log "github.com/sirupsen/logrus"

	"linkhoard/internal/tasks"
)

var organizeBackground bool

var organizeCmd = &cobra.Command{
	Use:   "organize [id...]",
	Short: "Auto-assign categories and tags using the configured AI provider",
	Long: `Runs the AI organization pipeline over the given bookmark ids, or over
every uncategorized bookmark when no ids are given. Ctrl-C stops cleanly:
classifications already received are kept and applied.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		appInstance, err := GetAppFromContext(cmd.Context())
		if err != nil {
			return err
		}

		if organizeBackground {
			task, err := tasks.NewOrganizeTask(args)
			if err != nil {
				return err
			}
			info, err := appInstance.JobClient().Enqueue(task)
			if err != nil {
				return fmt.Errorf("failed to enqueue organize job: %w", err)
			}
			fmt.Printf("Enqueued organize job %s on queue %q\n", info.ID, info.Queue)
			return nil
		}

		// SIGINT flips the context; the pipeline stops at the next
		// checkpoint and returns what it has.
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		report, err := appInstance.RunOrganization(ctx, args)
		if err != nil {
			return fmt.Errorf("organization failed: %w", err)
		}

		if len(report.Results) == 0 {
			fmt.Println("No bookmarks were classified.")
			return nil
		}

		table := tablewriter.NewWriter(os.Stdout)
		table.SetHeader([]string{"ID", "Category", "Tags"})
		for _, r := range report.Results {
			table.Append([]string{r.ID, r.Category, strings.Join(r.Tags, ", ")})
		}
		table.Render()

		color.Green("Applied %d of %d classifications", report.Applied, report.Submitted)
		if report.Partial() {
			log.Warnf("Run was partial (%d of %d); run organize again for the rest",
				len(report.Results), report.Submitted)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(organizeCmd)
	organizeCmd.Flags().BoolVar(&organizeBackground, "background", false,
		"Enqueue as a background job instead of running inline")
}
