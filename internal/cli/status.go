package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/controller"
	"github.com/dwarvesf/arkswap/internal/model"
	"github.com/dwarvesf/arkswap/internal/swapstate"
)

var (
	watchStatus   bool
	watchInterval int
)

var statusCmd = &cobra.Command{
	Use:   "status <swap-id>",
	Short: "Re-fetch a swap and show its status",
	Long: `Re-fetch a swap from the swap service and show its normalized status.

Examples:
  arkswap status 3f1c...
  arkswap status 3f1c... --watch --interval 10`,
	Args: cobra.ExactArgs(1),
	RunE: runStatus,
}

var pendingCmd = &cobra.Command{
	Use:   "pending",
	Short: "List swaps that have not reached a terminal status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, "PENDING SWAPS", "Refreshing pending swaps...", func(ctx context.Context, c *controller.Controller) ([]model.Swap, error) {
			return c.ListPending(ctx)
		})
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List every locally known swap, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList(cmd, "SWAP HISTORY", "Loading history...", func(ctx context.Context, c *controller.Controller) ([]model.Swap, error) {
			return c.ListHistory(ctx)
		})
	},
}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reconcile local swap records with the swap service",
	Args:  cobra.NoArgs,
	RunE:  runSync,
}

func init() {
	rootCmd.AddCommand(statusCmd, pendingCmd, historyCmd, syncCmd)

	statusCmd.Flags().BoolVarP(&watchStatus, "watch", "w", false, "Poll until the swap is terminal")
	statusCmd.Flags().IntVar(&watchInterval, "interval", 5, "Polling interval in seconds (when watching)")
}

func runStatus(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}
	swapID := args[0]

	if !watchStatus {
		swap, err := withSpinner(cmd, "Checking swap status...", func(ctx context.Context) (*model.Swap, error) {
			return core.Controller.GetStatus(ctx, swapID)
		})
		if err != nil {
			return err
		}
		if jsonOutput(cmd) {
			return printJSON(swap)
		}
		printHeader("SWAP STATUS")
		printSwap(swap)
		fmt.Println()
		return nil
	}

	if jsonOutput(cmd) {
		return fmt.Errorf("watch mode not supported with JSON output")
	}

	fmt.Printf("\nWatching swap %s every %ds. Press Ctrl+C to stop.\n", color.CyanString(swapID), watchInterval)
	ticker := time.NewTicker(time.Duration(watchInterval) * time.Second)
	defer ticker.Stop()

	var last model.SwapStatus
	for {
		swap, err := core.Controller.GetStatus(cmd.Context(), swapID)
		switch {
		case err != nil:
			color.Red("Error: %v", err)
		case swap.Status != last:
			last = swap.Status
			fmt.Printf("  %s  %s\n", time.Now().Format("15:04:05"), coloredStatus(swap.Status))
			if swapstate.IsTerminal(swap.Status) {
				printSwap(swap)
				fmt.Println()
				return nil
			}
		}

		select {
		case <-cmd.Context().Done():
			return cmd.Context().Err()
		case <-ticker.C:
		}
	}
}

func runList(cmd *cobra.Command, title, suffix string, list func(context.Context, *controller.Controller) ([]model.Swap, error)) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	swaps, err := withSpinner(cmd, suffix, func(ctx context.Context) ([]model.Swap, error) {
		return list(ctx, core.Controller)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(swaps)
	}
	printHeader(title)
	printSwapTable(swaps)
	return nil
}

func runSync(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	res, err := withSpinner(cmd, "Syncing swaps...", func(ctx context.Context) (*controller.SyncResult, error) {
		return core.Controller.Sync(ctx)
	})
	if err != nil {
		return err
	}

	if jsonOutput(cmd) {
		return printJSON(res)
	}
	fmt.Printf("\n  Fetched %d, upserted %d, %d status changes\n\n", res.Fetched, res.Upserted, res.Transitions)
	return nil
}
