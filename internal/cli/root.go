// Package cli is the arkswap command line: the swap coordinator driven
// in-process against the configured swap service and wallet.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/monitoring"
	"github.com/dwarvesf/arkswap/internal/server"
	"github.com/dwarvesf/arkswap/internal/types/environments"
	"github.com/dwarvesf/arkswap/internal/utils/config"
	"github.com/dwarvesf/arkswap/internal/utils/logger"
)

var rootCmd = &cobra.Command{
	Use:   "arkswap",
	Short: "Swap BTC on Arkade for EVM stablecoins and back",
	Long: `arkswap drives BTC (Arkade) <-> EVM stablecoin atomic swaps through the
swap service, paying from and receiving into the configured Ark wallet.

Examples:
  arkswap tokens
  arkswap quote 100000 --direction btc_to_stablecoin --token usdc --chain polygon
  arkswap create btc-to-stablecoin --sats 100000 --token usdc --chain polygon --to 0x742d...
  arkswap status <swap-id> --watch`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

// ExecuteContext runs the root command; ctx cancels in-flight waits.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log to stderr")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "Output in JSON format")
}

func jsonOutput(cmd *cobra.Command) bool {
	v, _ := cmd.Flags().GetBool("json")
	return v
}

// newCore builds the coordinator for one command. Logging stays silent unless
// --verbose is given.
func newCore(cmd *cobra.Command) (*server.Core, error) {
	appConfig := config.New()
	env := environments.Test
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		env = environments.CLI
	}
	return server.NewCore(cmd.Context(), appConfig, logger.New(env), monitoring.NewExternalAPIMetrics(), nil)
}

// withSpinner runs fn behind a spinner unless output is JSON.
func withSpinner[T any](cmd *cobra.Command, suffix string, fn func(ctx context.Context) (T, error)) (T, error) {
	if jsonOutput(cmd) {
		return fn(cmd.Context())
	}
	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Suffix = " " + suffix
	s.Start()
	defer s.Stop()
	return fn(cmd.Context())
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}

func printHeader(title string) {
	fmt.Println("\n" + strings.Repeat("=", 70))
	color.Green("%s", centered(title, 70))
	fmt.Println(strings.Repeat("=", 70))
}

func centered(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return strings.Repeat(" ", (width-len(s))/2) + s
}

func coloredStatus(status model.SwapStatus) string {
	s := strings.ToUpper(string(status))
	switch status {
	case model.SwapStatusCompleted:
		return color.GreenString(s)
	case model.SwapStatusPending, model.SwapStatusFunded, model.SwapStatusProcessing:
		return color.YellowString(s)
	case model.SwapStatusFailed, model.SwapStatusRefunded, model.SwapStatusExpired:
		return color.RedString(s)
	default:
		return s
	}
}

func printSwap(swap *model.Swap) {
	fmt.Printf("\n  Swap ID:        %s\n", color.CyanString(swap.SwapID))
	fmt.Printf("  Direction:      %s\n", swap.Direction)
	fmt.Printf("  Status:         %s (%s)\n", coloredStatus(swap.Status), color.HiBlackString(swap.RemoteStatus))
	fmt.Printf("  Source:         %v %s\n", swap.SourceAmount, swap.SourceToken)
	fmt.Printf("  Target:         %v %s\n", swap.TargetAmount, swap.TargetToken)
	fmt.Printf("  Rate:           %.2f\n", swap.ExchangeRate)
	fmt.Printf("  Fee:            %d sats (%.2f%%)\n", swap.FeeAmount, swap.FeePercentage)
	if !swap.ExpiresAt.IsZero() {
		fmt.Printf("  Refundable at:  %s\n", swap.ExpiresAt.Format("2006-01-02 15:04:05"))
	}
	details := swap.Details()
	if details.FundingAddress != "" {
		fmt.Printf("  VHTLC:          %s\n", details.FundingAddress)
	}
	if details.HTLCAddress != "" {
		fmt.Printf("  EVM HTLC:       %s\n", details.HTLCAddress)
	}
	if swap.TxID != "" {
		fmt.Printf("  Funding tx:     %s\n", color.HiBlackString(swap.TxID))
	}
	if swap.CompletedAt != nil {
		fmt.Printf("  Completed:      %s\n", swap.CompletedAt.Format("2006-01-02 15:04:05"))
	}
}

func printSwapTable(swaps []model.Swap) {
	if len(swaps) == 0 {
		fmt.Println("\n  No swaps.")
		return
	}
	fmt.Printf("\n  %-38s %-18s %-12s %-22s\n", "SWAP ID", "DIRECTION", "STATUS", "CREATED")
	for _, s := range swaps {
		fmt.Printf("  %-38s %-18s %-21s %-22s\n",
			s.SwapID, s.Direction, coloredStatus(s.Status), s.CreatedAt.Format("2006-01-02 15:04:05"))
	}
	fmt.Println()
}
