package cli

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwarvesf/arkswap/internal/model"
)

var tokensCmd = &cobra.Command{
	Use:     "tokens",
	Aliases: []string{"list-tokens"},
	Short:   "List the tokens the swap service trades",
	Args:    cobra.NoArgs,
	RunE:    runTokens,
}

var tokensChain string

func init() {
	rootCmd.AddCommand(tokensCmd)
	tokensCmd.Flags().StringVar(&tokensChain, "chain", "", "Filter by chain")
}

func runTokens(cmd *cobra.Command, args []string) error {
	core, err := newCore(cmd)
	if err != nil {
		return err
	}

	tokens, err := withSpinner(cmd, "Fetching tokens...", func(ctx context.Context) ([]model.TokenRef, error) {
		return core.Controller.Tokens(ctx)
	})
	if err != nil {
		return err
	}

	filtered := tokens[:0:0]
	for _, t := range tokens {
		if tokensChain == "" || strings.EqualFold(t.Chain, tokensChain) {
			filtered = append(filtered, t)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })

	if jsonOutput(cmd) {
		return printJSON(filtered)
	}

	printHeader("SUPPORTED TOKENS")
	fmt.Printf("\n  %-14s %-8s %-10s %-9s %s\n", "KEY", "SYMBOL", "CHAIN", "DECIMALS", "ADDRESS")
	for _, t := range filtered {
		fmt.Printf("  %s %-8s %-10s %-9d %s\n",
			color.CyanString("%-14s", t.ID), t.Symbol, t.Chain, t.Decimals, color.HiBlackString(t.TokenAddress))
	}
	fmt.Println()
	return nil
}
