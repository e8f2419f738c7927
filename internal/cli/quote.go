package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
)

var (
	quoteDirection string
	quoteToken     string
	quoteChain     string
)

var quoteCmd = &cobra.Command{
	Use:   "quote <amount>",
	Short: "Price a swap without creating it",
	Long: `Price a swap. The amount is sats for btc_to_stablecoin and token units
for stablecoin_to_btc. Quotes are indicative and valid for 60 seconds.

Examples:
  arkswap quote 100000 --direction btc_to_stablecoin --token usdc --chain polygon
  arkswap quote 250 --direction stablecoin_to_btc --token usdt --chain arbitrum`,
	Args: cobra.ExactArgs(1),
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)
	quoteCmd.Flags().StringVarP(&quoteDirection, "direction", "d", string(model.DirectionBtcToStablecoin), "btc_to_stablecoin or stablecoin_to_btc")
	quoteCmd.Flags().StringVar(&quoteToken, "token", "usdc", "Stablecoin symbol")
	quoteCmd.Flags().StringVar(&quoteChain, "chain", "polygon", "EVM chain")
}

func runQuote(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	q, err := withSpinner(cmd, "Fetching quote...", func(ctx context.Context) (*model.Quote, error) {
		return core.Controller.Quote(ctx, controller.QuoteParams{
			Direction: model.SwapDirection(quoteDirection),
			Amount:    amount,
			Token:     quoteToken,
			Chain:     quoteChain,
		})
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(q)
	}

	printHeader("SWAP QUOTE")
	fmt.Printf("\n  You send:       %s %s\n", color.CyanString("%v", q.SourceAmount), q.SourceToken)
	fmt.Printf("  You receive:    %s %s\n", color.GreenString("%v", q.TargetAmount), q.TargetToken)
	fmt.Printf("  Rate:           %.2f per BTC\n", q.ExchangeRate)
	fmt.Printf("  Fee:            %d sats (%.2f%%)\n", q.Fee.Amount, q.Fee.Percentage)
	fmt.Printf("  Valid until:    %s\n\n", q.ExpiresAt.Local().Format("15:04:05"))
	return nil
}
