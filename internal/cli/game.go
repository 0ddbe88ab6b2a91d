package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/model"
)

func newGameCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "game",
		Short: "Game commands",
	}

	cmd.AddCommand(newGameStartCmd())
	cmd.AddCommand(newGameGetCmd())
	cmd.AddCommand(newGameMoveCmd())
	cmd.AddCommand(newGameMovesCmd())
	cmd.AddCommand(newGameAbandonCmd())
	cmd.AddCommand(newGameActiveCmd())
	cmd.AddCommand(newGameDurationCmd())
	cmd.AddCommand(newGameListCmd())
	cmd.AddCommand(newGameTotalCmd())
	cmd.AddCommand(newGameAutoplayCmd())

	return cmd
}

func newGameStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start <difficulty>",
		Short: "Start a new game (easy, normal, hard or 1-3)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			difficulty, err := parseDifficultyArg(args[0])
			if err != nil {
				return err
			}

			var result response.Game
			if err := client.Post("/api/v1/games", map[string]int{"difficulty": int(difficulty)}, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Get a game's state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}

			var result response.Game
			if err := client.Get(fmt.Sprintf("/api/v1/games/%d", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameMoveCmd() *cobra.Command {
	var isMatch bool

	cmd := &cobra.Command{
		Use:   "move <game-id> <card1> <card2>",
		Short: "Record an attempt to match two cards",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}
			card1, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid card1: %w", err)
			}
			card2, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("invalid card2: %w", err)
			}

			req := map[string]any{"card_index_1": card1, "card_index_2": card2, "is_match": isMatch}
			var result response.MoveResult
			if err := client.Post(fmt.Sprintf("/api/v1/games/%d/moves", id), req, &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&isMatch, "match", false, "The two cards form a pair")

	return cmd
}

func newGameMovesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "moves <game-id>",
		Short: "List a game's moves in play order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}

			var result response.MoveList
			if err := client.Get(fmt.Sprintf("/api/v1/games/%d/moves", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameAbandonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "abandon <game-id>",
		Short: "Abandon an active game (creator only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}

			var result response.Game
			if err := client.Delete(fmt.Sprintf("/api/v1/games/%d", id), &result); err != nil {
				return err
			}

			out := output(cmd)
			if cfg.Output == "json" {
				out.Print(result)
			} else {
				out.PrintMessage(fmt.Sprintf("Game %d abandoned", id))
			}
			return nil
		},
	}
}

func newGameActiveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "active <game-id>",
		Short: "Check whether a game accepts moves",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}

			var result response.Active
			if err := client.Get(fmt.Sprintf("/api/v1/games/%d/active", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameDurationCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "duration <game-id>",
		Short: "Show elapsed play time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseGameIDArg(args[0])
			if err != nil {
				return err
			}

			var result response.Duration
			if err := client.Get(fmt.Sprintf("/api/v1/games/%d/duration", id), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

func newGameListCmd() *cobra.Command {
	cmd := newPlayerGamesCmd()
	cmd.Use = "list [player]"
	return cmd
}

func newGameTotalCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "total",
		Short: "Show the number of games ever created",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Total
			if err := client.Get("/api/v1/games/total", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

// parseDifficultyArg accepts a label or a level number
func parseDifficultyArg(s string) (model.Difficulty, error) {
	if n, err := strconv.Atoi(s); err == nil {
		d := model.Difficulty(n)
		if n < 0 || n > 255 || !d.IsValid() {
			return 0, fmt.Errorf("%w: %s", model.ErrInvalidDifficulty, s)
		}
		return d, nil
	}
	d, err := model.ParseDifficulty(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %s", err, s)
	}
	return d, nil
}

func parseGameIDArg(s string) (model.GameID, error) {
	id, err := model.ParseGameID(s)
	if err != nil {
		return 0, fmt.Errorf("invalid game id %q", s)
	}
	return id, nil
}
