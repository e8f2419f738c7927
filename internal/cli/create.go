package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/errs"
	"github.com/dwarvesf/arkswap/internal/model"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a swap",
}

var (
	btcParams    controller.BtcToStablecoinParams
	stableParams controller.StablecoinToBtcParams
)

var createBtcCmd = &cobra.Command{
	Use:   "btc-to-stablecoin",
	Short: "Swap wallet BTC for a stablecoin; the VHTLC is funded immediately",
	Long: `Create a BTC -> stablecoin swap and pay its VHTLC from the wallet.

Give either --sats (what you send) or --target-amount (what you receive).

Examples:
  arkswap create btc-to-stablecoin --sats 100000 --token usdc --chain polygon --to 0x742d...
  arkswap create btc-to-stablecoin --target-amount 50 --token usdt --chain arbitrum --to 0x742d...`,
	Args: cobra.NoArgs,
	RunE: runCreateBtc,
}

var createStableCmd = &cobra.Command{
	Use:   "stablecoin-to-btc",
	Short: "Swap a stablecoin for BTC delivered to the wallet",
	Long: `Create a stablecoin -> BTC swap. The EVM side is funded by the user with
the call data printed by "arkswap calldata funding <swap-id>".

Examples:
  arkswap create stablecoin-to-btc --amount 100 --token usdc --chain polygon --from 0x742d...`,
	Args: cobra.NoArgs,
	RunE: runCreateStable,
}

func init() {
	rootCmd.AddCommand(createCmd)
	createCmd.AddCommand(createBtcCmd, createStableCmd)

	f := createBtcCmd.Flags()
	f.Int64Var(&btcParams.SourceAmountSats, "sats", 0, "Amount to send, in sats")
	f.Float64Var(&btcParams.TargetAmount, "target-amount", 0, "Amount to receive, in token units")
	f.StringVar(&btcParams.TargetToken, "token", "usdc", "Stablecoin symbol")
	f.StringVar(&btcParams.TargetChain, "chain", "polygon", "EVM chain")
	f.StringVar(&btcParams.TargetAddress, "to", "", "EVM address receiving the stablecoin")
	f.StringVar(&btcParams.ReferralCode, "referral", "", "Referral code")
	_ = createBtcCmd.MarkFlagRequired("to")

	f = createStableCmd.Flags()
	f.Float64Var(&stableParams.SourceAmount, "amount", 0, "Amount to send, in token units")
	f.StringVar(&stableParams.SourceToken, "token", "usdc", "Stablecoin symbol")
	f.StringVar(&stableParams.SourceChain, "chain", "polygon", "EVM chain")
	f.StringVar(&stableParams.UserAddress, "from", "", "EVM address funding the swap")
	f.StringVar(&stableParams.DestinationAddress, "destination", "", "Ark address receiving BTC (default: wallet)")
	f.StringVar(&stableParams.ReferralCode, "referral", "", "Referral code")
	_ = createStableCmd.MarkFlagRequired("from")
	_ = createStableCmd.MarkFlagRequired("amount")
}

func runCreateBtc(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Creating and funding swap...", func(ctx context.Context) (*model.StablecoinSwapResult, error) {
		return core.Controller.CreateBtcToStablecoin(ctx, btcParams)
	})
	if err != nil {
		if e, ok := errs.From(err); ok && e.SwapID != "" {
			color.Yellow("\nSwap %s exists but is unfunded. Refund or retry funding once the wallet is fixed.", e.SwapID)
		}
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}

	printHeader("SWAP CREATED")
	printSwap(res.Swap)
	fmt.Printf("\n  %s %s\n\n", color.GreenString("Funded with"), res.FundingTxID)
	return nil
}

func runCreateStable(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Creating swap...", func(ctx context.Context) (*model.StablecoinSwapResult, error) {
		return core.Controller.CreateStablecoinToBtc(ctx, stableParams)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}

	printHeader("SWAP CREATED")
	printSwap(res.Swap)
	fmt.Printf("\n  Fund it with: arkswap calldata funding %s\n\n", res.Swap.SwapID)
	return nil
}
