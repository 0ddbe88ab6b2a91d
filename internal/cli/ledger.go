package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mcoot/memorygame-go/internal/api/request"
	"github.com/mcoot/memorygame-go/internal/api/response"
	"github.com/mcoot/memorygame-go/internal/ledger"
)

func newLedgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Ledger call surface commands",
	}

	cmd.AddCommand(newLedgerCallCmd())
	cmd.AddCommand(newLedgerMethodsCmd())

	return cmd
}

func newLedgerCallCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "call <method> [args-json]",
		Short: "Submit a call and print its receipt",
		Long: `Submit a call against the ledger surface as the current player.

Examples:
  memgame ledger call startGame '{"difficulty":1}'
  memgame ledger call validateMove '{"gameId":1,"cardIndex1":0,"cardIndex2":5,"isMatch":false}'
  memgame ledger call getTotalGames`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := request.LedgerTxRequest{Method: args[0]}
			if len(args) == 2 {
				if !json.Valid([]byte(args[1])) {
					return fmt.Errorf("args must be valid JSON")
				}
				req.Args = json.RawMessage(args[1])
			}

			var receipt ledger.Receipt
			if err := client.Post("/api/v1/ledger/tx", req, &receipt); err != nil {
				return err
			}

			output(cmd).Print(&receipt)
			if !receipt.Succeeded() {
				return fmt.Errorf("call reverted: %s", receipt.RevertReason)
			}
			return nil
		},
	}
}

func newLedgerMethodsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List callable methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var result response.Methods
			if err := client.Get("/api/v1/ledger/methods", &result); err != nil {
				return err
			}

			output(cmd).Print(result)
			return nil
		},
	}
}
