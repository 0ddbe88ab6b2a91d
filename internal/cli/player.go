package cli

import (
	"errors"
	"fmt"
	"net/url"

	"github.com/spf13/cobra"

	"github.com/mcoot/memorygame-go/internal/api/handler"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/model"
)

// Identity describes who the CLI acts as
type Identity struct {
	Player  string `json:"player"`
	Address string `json:"address"`
}

func newPlayerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player identity commands",
	}

	cmd.AddCommand(newPlayerUseCmd())
	cmd.AddCommand(newPlayerWhoamiCmd())
	cmd.AddCommand(newPlayerGamesCmd())

	return cmd
}

func newPlayerUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <player>",
		Short: "Remember the identity to act as",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.SavePlayer(args[0]); err != nil {
				return fmt.Errorf("failed to save player: %w", err)
			}
			output(cmd).Print(identityFor(args[0]))
			return nil
		},
	}
}

func newPlayerWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current identity and its ledger address",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Player == "" {
				return errNoPlayer
			}
			output(cmd).Print(identityFor(cfg.Player))
			return nil
		},
	}
}

func newPlayerGamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "games [player]",
		Short: "List the games a player created (default: current player)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			player, err := playerArg(args)
			if err != nil {
				return err
			}

			var result response.PlayerGames
			if err := client.Get(fmt.Sprintf("/api/v1/players/%s/games", url.PathEscape(player)), &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}

var errNoPlayer = errors.New("no player set: use --player, MEMGAME_PLAYER or 'memgame player use'")

func identityFor(player string) Identity {
	return Identity{
		Player:  player,
		Address: handler.SenderAddress(model.PlayerID(player)).Hex(),
	}
}

// playerArg returns the explicit player argument or the configured identity
func playerArg(args []string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if cfg.Player == "" {
		return "", errNoPlayer
	}
	return cfg.Player, nil
}
