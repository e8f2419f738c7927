package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/model"
)

var refundDestination string

var claimCmd = &cobra.Command{
	Use:   "claim <swap-id>",
	Short: "Ask the swap service to claim a swap",
	Args:  cobra.ExactArgs(1),
	RunE:  runClaim,
}

var refundCmd = &cobra.Command{
	Use:   "refund <swap-id>",
	Short: "Refund a BTC-sourced swap",
	Long: `Refund a BTC-sourced swap after its timelock. Without --to, BTC goes back
to the wallet's Ark address when the wallet funded the swap, otherwise to the
wallet's boarding address. Stablecoin-sourced swaps refund on the EVM side:
use "arkswap calldata refund <swap-id>".`,
	Args: cobra.ExactArgs(1),
	RunE: runRefund,
}

var calldataCmd = &cobra.Command{
	Use:       "calldata <funding|refund> <swap-id>",
	Short:     "Print the EVM transaction that funds or refunds a stablecoin swap",
	Args:      cobra.ExactArgs(2),
	ValidArgs: []string{"funding", "refund"},
	RunE:      runCalldata,
}

var waitTimeout time.Duration

var waitFundsCmd = &cobra.Command{
	Use:   "wait-funds",
	Short: "Block until the wallet receives funds",
	Args:  cobra.NoArgs,
	RunE:  runWaitFunds,
}

func init() {
	rootCmd.AddCommand(claimCmd, refundCmd, calldataCmd, waitFundsCmd)

	refundCmd.Flags().StringVar(&refundDestination, "to", "", "Refund destination address")
	waitFundsCmd.Flags().DurationVar(&waitTimeout, "timeout", 5*time.Minute, "Give up after this long; 0 waits until interrupted")
}

func runClaim(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Claiming...", func(ctx context.Context) (*model.ClaimResult, error) {
		return core.Controller.Claim(ctx, args[0])
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}
	if !res.Success {
		color.Red("\nClaim rejected: %s\n", res.Message)
		return nil
	}
	fmt.Printf("\n  %s on %s: %s\n\n", color.GreenString("Claimed"), res.Chain, res.TxHash)
	return nil
}

func runRefund(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Refunding...", func(ctx context.Context) (*model.RefundResult, error) {
		return core.Controller.Refund(ctx, args[0], refundDestination)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}
	switch {
	case res.NotApplicable:
		color.Yellow("\n%s\n", res.Message)
	case !res.Success:
		color.Red("\nRefund rejected: %s\n", res.Message)
	default:
		fmt.Printf("\n  %s: %s\n\n", color.GreenString("Refunded"), res.TxID)
	}
	return nil
}

func runCalldata(cmd *cobra.Command, args []string) error {
	kind, swapID := args[0], args[1]
	if kind != "funding" && kind != "refund" {
		return fmt.Errorf("unknown call data %q, want funding or refund", kind)
	}

	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	data, err := withSpinner(cmd, "Fetching call data...", func(ctx context.Context) (*model.EvmCallData, error) {
		if kind == "funding" {
			return core.Controller.GetEvmFundingCallData(ctx, swapID)
		}
		return core.Controller.GetEvmRefundCallData(ctx, swapID)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(data)
	}
	printHeader("EVM " + kind + " TRANSACTION")
	fmt.Printf("\n  Chain ID:  %d\n", data.ChainID)
	fmt.Printf("  To:        %s\n", color.CyanString(data.To))
	if data.Value != "" {
		fmt.Printf("  Value:     %s\n", data.Value)
	}
	fmt.Printf("  Data:      %s\n\n", data.Data)
	return nil
}

func runWaitFunds(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Waiting for incoming funds...", func(ctx context.Context) (*model.IncomingFundsWaitResult, error) {
		return core.Waiter.WaitForIncomingFunds(ctx, waitTimeout)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}
	fmt.Printf("\n  %s %d sats as %s\n", color.GreenString("Received"), res.Amount, res.Type)
	for _, id := range res.IDs {
		fmt.Printf("    %s\n", color.HiBlackString(id))
	}
	fmt.Println()
	return nil
}
