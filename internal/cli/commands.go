// Copyright (c) 2026 Trackbook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cli

import (
	"bufio"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/taibuivan/trackbook/internal/core/plan"
	"github.com/taibuivan/trackbook/internal/users/auth"
	"github.com/taibuivan/trackbook/pkg/convert"
	"github.com/taibuivan/trackbook/pkg/pagination"
	"github.com/taibuivan/trackbook/pkg/query"
)

// # Session Commands

func (cli *app) loginCommand() *cobra.Command {
	var email, password string

	command := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the reading-plan service",
		Long: `Sign in and keep the session on disk.

The password is read from standard input when --password is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				line, err := readLine(cmd, "Password: ")
				if err != nil {
					return err
				}
				password = line
			}

			state, err := cli.deps.Auth.Login(cmd.Context(), cliSessionID, auth.LoginInput{Email: email, Password: password})
			if err != nil {
				return err
			}

			if cli.jsonOutput {
				return cli.printer.JSON(state)
			}
			cli.printer.Success("Signed in as %s", state.User.FullName())
			return nil
		},
	}

	command.Flags().StringVarP(&email, "email", "e", "", "account email")
	command.Flags().StringVarP(&password, "password", "p", "", "account password")
	_ = command.MarkFlagRequired("email")

	return command
}

func (cli *app) logoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cli.deps.Auth.Logout(cmd.Context(), cliSessionID); err != nil {
				return err
			}
			cli.printer.Success("Signed out")
			return nil
		},
	}
}

func (cli *app) whoamiCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, err := cli.deps.Auth.Current(cmd.Context(), cliSessionID)
			if err != nil {
				return err
			}
			if !state.Authenticated {
				return errNotSignedIn
			}

			if cli.jsonOutput {
				return cli.printer.JSON(state.User)
			}
			cli.printer.Print("%s <%s>", state.User.FullName(), state.User.Email)
			return nil
		},
	}
}

// # Plan Commands

func (cli *app) plansCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "plans",
		Aliases: []string{"ls"},
		Short:   "List your reading plans",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.authorized(cmd, func(ctx context.Context, userID string) error {
				cards, _, err := cli.deps.Plans.ListPlans(ctx, userID, pagination.Params{Page: 1, Limit: pagination.MaxLimit})
				if err != nil {
					return err
				}

				if cli.jsonOutput {
					return cli.printer.JSON(cards)
				}
				if len(cards) == 0 {
					cli.printer.Print("No reading plans yet.")
					return nil
				}

				rows := make([][]string, 0, len(cards))
				for _, card := range cards {
					rows = append(rows, []string{
						strconv.Itoa(card.ID),
						card.Title,
						card.BookTitle,
						card.StartDate.String(),
						card.EndDate.String(),
						cli.printer.Band(card.ProgressPercent),
					})
				}
				return cli.printer.Table([]string{"ID", "TITLE", "BOOK", "START", "END", "PROGRESS"}, rows)
			})
		},
	}
}

func (cli *app) planCommand() *cobra.Command {
	command := &cobra.Command{
		Use:   "plan",
		Short: "Inspect a plan or record reading",
	}
	command.AddCommand(cli.planShowCommand(), cli.planReadCommand())
	return command
}

func (cli *app) planShowCommand() *cobra.Command {
	var day int

	command := &cobra.Command{
		Use:   "show <planID>",
		Short: "Show the day-by-day progress of a plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("planID", args[0])
			if err != nil {
				return err
			}

			var focusDay *int
			if cmd.Flags().Changed("day") {
				focusDay = &day
			}

			return cli.authorized(cmd, func(ctx context.Context, userID string) error {
				view, err := cli.deps.Plans.GetProgress(ctx, userID, planID, focusDay)
				if err != nil {
					return err
				}

				if cli.jsonOutput {
					return cli.printer.JSON(view)
				}
				return cli.renderProgress(view)
			})
		},
	}

	command.Flags().IntVarP(&day, "day", "d", 0, "expand this day instead of the default one")

	return command
}

func (cli *app) planReadCommand() *cobra.Command {
	var request plan.MarkReadRequest

	command := &cobra.Command{
		Use:   "read <planID> <assignmentID>[,<assignmentID>...]",
		Short: "Mark one or more assignments as read",
		Example: `  trackbook plan read 12 41 --minutes 25
  trackbook plan read 12 41,42 --minutes 50 --difficulty 3 --notes "dense chapter"`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			planID, err := parseID("planID", args[0])
			if err != nil {
				return err
			}

			request.AssignmentIDs, err = query.PositiveInts(args[1:])
			if err != nil {
				return fmt.Errorf("assignmentID %w", err)
			}

			return cli.authorized(cmd, func(ctx context.Context, userID string) error {
				outcome, err := cli.deps.Plans.MarkChaptersRead(ctx, userID, planID, request)
				if err != nil {
					return err
				}

				if cli.jsonOutput {
					return cli.printer.JSON(outcome)
				}
				cli.printer.Success("%s", outcome.Message)
				return cli.renderProgress(&outcome.View)
			})
		},
	}

	command.Flags().IntVarP(&request.ActualMinutes, "minutes", "m", 0, "minutes actually spent reading")
	command.Flags().IntVar(&request.PerceivedDifficulty, "difficulty", 0, "perceived difficulty from 1 (very easy) to 5 (very hard)")
	command.Flags().StringVar(&request.Notes, "notes", "", "free-form notes")
	_ = command.MarkFlagRequired("minutes")

	return command
}

func (cli *app) renderProgress(view *plan.ProgressView) error {
	stats := view.Statistics

	cli.printer.Header(fmt.Sprintf("%s (#%d)", view.Plan.Title, view.Plan.ID))
	cli.printer.Print("Progress  %s   Chapters %d/%d (%s)   Pages %d/%d (%s)   Days %d/%d (%s)",
		cli.printer.Band(plan.DisplayProgress(view.Plan.Progress)),
		stats.CompletedChapters, stats.TotalChapters, cli.printer.Band(stats.ChaptersPercentage()),
		stats.PagesRead, stats.TotalPages, cli.printer.Band(stats.PagesPercentage()),
		stats.CompletedDays, stats.TotalDays, cli.printer.Band(stats.DaysPercentage()),
	)
	cli.printer.Print("Time      %d min estimated, %d min read", stats.EstimatedMinutes, stats.ActualMinutes)

	if len(view.Days) == 0 {
		cli.printer.Print("\nThis plan has no assignments.")
		return nil
	}

	rows := make([][]string, 0, len(view.Days))
	var expanded *plan.DayView
	for index, day := range view.Days {
		marker := ""
		if day.Expanded {
			marker = "▸"
			expanded = &view.Days[index]
		}
		rows = append(rows, []string{
			marker,
			fmt.Sprintf("Day %d", day.Day),
			day.AssignedDate.String(),
			cli.printer.Status(day.Status),
			fmt.Sprintf("%d/%d", day.ReadCount, day.Total),
		})
	}

	cli.printer.Print("")
	if err := cli.printer.Table([]string{"", "DAY", "DATE", "STATUS", "READ"}, rows); err != nil {
		return err
	}

	if expanded == nil {
		return nil
	}

	cli.printer.Header(fmt.Sprintf("Day %d", expanded.Day))
	assignments := make([][]string, 0, len(expanded.Assignments))
	for _, assignment := range expanded.Assignments {
		assignments = append(assignments, []string{
			strconv.Itoa(assignment.ID),
			cli.printer.Check(assignment.IsRead),
			fmt.Sprintf("%d. %s", assignment.Chapter.Number, assignment.Chapter.Title),
			fmt.Sprintf("%d-%d", assignment.StartPage, assignment.EndPage),
			fmt.Sprintf("%d min", assignment.EstimatedMinutes),
			spent(assignment),
		})
	}
	return cli.printer.Table([]string{"ID", "", "CHAPTER", "PAGES", "ESTIMATE", "READ"}, assignments)
}

// # Report Command

func (cli *app) reportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show your overall reading report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.authorized(cmd, func(ctx context.Context, userID string) error {
				overview, err := cli.deps.Reports.Overview(ctx, userID)
				if err != nil {
					return err
				}

				if cli.jsonOutput {
					return cli.printer.JSON(overview)
				}

				books, progress, compliance := overview.Books, overview.Progress, overview.Compliance

				cli.printer.Header("Library")
				cli.printer.Print("Books     %d total, %d in progress, %d completed", books.TotalBooks, books.BooksInProgress, books.BooksCompleted)
				cli.printer.Print("Plans     %d total, %d active, %d completed, %d paused", books.TotalPlans, books.ActivePlans, books.CompletedPlans, books.PausedPlans)

				cli.printer.Header("Progress")
				cli.printer.Print("Chapters  %d/%d read (%s)", progress.ChaptersRead, progress.TotalChapters, cli.printer.Band(plan.DisplayProgress(progress.ProgressPercent)))
				cli.printer.Print("Pages     %d read in %d min", progress.PagesRead, progress.MinutesInvested)

				cli.printer.Header("Compliance")
				cli.printer.Print("Days      %d planned, %d completed, %d late, %d early", compliance.PlannedDays, compliance.CompletedDays, compliance.LateDays, compliance.EarlyDays)
				cli.printer.Print("Rate      %s  %s", cli.printer.Band(plan.DisplayProgress(compliance.CompliancePercent)), cli.printer.Trend(compliance.Trend))

				if len(overview.BooksInProgress) == 0 {
					return nil
				}

				cli.printer.Header("Books in progress")
				rows := make([][]string, 0, len(overview.BooksInProgress))
				for _, book := range overview.BooksInProgress {
					rows = append(rows, []string{
						book.Title,
						book.Author,
						fmt.Sprintf("%d/%d", book.ChaptersRead, book.TotalChapters),
						cli.printer.Band(plan.DisplayProgress(book.Progress)),
						strconv.Itoa(book.ElapsedDays),
					})
				}
				return cli.printer.Table([]string{"TITLE", "AUTHOR", "CHAPTERS", "PROGRESS", "DAYS"}, rows)
			})
		},
	}
}

// # Helpers

// spent describes the reading recorded on a completed assignment.
func spent(assignment plan.ReadingAssignment) string {
	if !assignment.IsRead || assignment.ActualMinutes == nil {
		return ""
	}
	text := fmt.Sprintf("%d min", *assignment.ActualMinutes)
	if assignment.PerceivedDifficulty != nil {
		text += ", " + plan.DifficultyLabel(*assignment.PerceivedDifficulty)
	}
	return text
}

func parseID(name, raw string) (int, error) {
	id, err := convert.PositiveInt(raw)
	if err != nil {
		return 0, fmt.Errorf("%s %w, got %q", name, err, raw)
	}
	return id, nil
}

func readLine(cmd *cobra.Command, prompt string) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), prompt)

	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}
