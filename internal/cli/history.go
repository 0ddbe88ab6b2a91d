package cli

import (
	"fmt"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Saved game summary commands",
	}

	cmd.AddCommand(newHistorySaveCmd())
	cmd.AddCommand(newHistoryListCmd())
	cmd.AddCommand(newHistoryAllCmd())
	cmd.AddCommand(newHistoryStatsCmd())

	return cmd
}

func newHistorySaveCmd() *cobra.Command {
	var (
		user       string
		date       string
		difficulty string
		completed  bool
		failed     int
		timeTaken  int
	)

	cmd := &cobra.Command{
		Use:   "save",
		Short: "Save a game summary record",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				user = cfg.Player
			}

			var gameDate *request.Date
			if date == "" {
				gameDate = &request.Date{Time: time.Now().UTC()}
			} else {
				t, err := request.ParseDate(date)
				if err != nil {
					return fmt.Errorf("invalid --date: %w", err)
				}
				gameDate = &request.Date{Time: t}
			}

			completedInt := 0
			if completed {
				completedInt = 1
			}

			req := request.SaveSummaryRequest{
				UserID:     user,
				GameDate:   gameDate,
				Failed:     &failed,
				Difficulty: difficulty,
				Completed:  &completedInt,
				TimeTaken:  &timeTaken,
			}

			var result response.Message
			if err := client.Post("/api/v1/memory/save", req, &result); err != nil {
				return err
			}

			output(cmd).PrintMessage(result.Message)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User id (default: current player)")
	cmd.Flags().StringVar(&date, "date", "", "Game date, RFC3339 or YYYY-MM-DD (default: now)")
	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Difficulty label: Easy, Normal, Hard")
	cmd.Flags().BoolVar(&completed, "completed", false, "The game was completed")
	cmd.Flags().IntVar(&failed, "failed", 0, "Number of wrong attempts")
	cmd.Flags().IntVar(&timeTaken, "time", 0, "Time taken in seconds")
	_ = cmd.MarkFlagRequired("difficulty")

	return cmd
}

func newHistoryListCmd() *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "list [user]",
		Short: "List a user's most recent summaries (default: current player)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := playerArg(args)
			if err != nil {
				return err
			}

			var result response.History
			if err := client.Get(historyPath(user, "", difficulty), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Only show one difficulty: Easy, Normal, Hard")

	return cmd
}

func newHistoryAllCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "List the most recent summaries across all users",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.History
			if err := client.Get("/api/v1/memory/history", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newHistoryStatsCmd() *cobra.Command {
	var difficulty string

	cmd := &cobra.Command{
		Use:   "stats [user]",
		Short: "Show success rate and average time (default: current player)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			user, err := playerArg(args)
			if err != nil {
				return err
			}

			var result response.Stats
			if err := client.Get(historyPath(user, "/stats", difficulty), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&difficulty, "difficulty", "", "Only count one difficulty: Easy, Normal, Hard")

	return cmd
}

func historyPath(user, suffix, difficulty string) string {
	path := "/api/v1/memory/history/" + url.PathEscape(user) + suffix
	if difficulty != "" {
		path += "?" + url.Values{"difficulty": {difficulty}}.Encode()
	}
	return path
}
