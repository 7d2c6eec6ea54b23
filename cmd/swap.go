package cmd

import (
	"github.com/spf13/cobra"
)

var (
	swapTokenIn      string
	swapTokenOut     string
	swapRecipient    string
	swapAmountIn     string
	swapAmountOutMin string

	liqTokenA         string
	liqTokenB         string
	liqAmountADesired string
	liqAmountAMin     string
	liqTo             string
	liqDeadline       uint64
)

var swapV3Cmd = &cobra.Command{
	Use:   "swap-tokens-uniswap-v3",
	Short: "Swap an exact token amount through the Uniswap V3 router",
	Long: `Swap an exact whole-unit amount of one whitelisted token for another
through the Uniswap V3 router. Amounts are whole-unit integer strings
and get scaled by each token's on-chain decimals, so "--amount-in 5"
of a 6-decimal token swaps 5000000 base units. The approval to the
router is submitted and mined before the swap itself.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.SwapTokensV3(swapTokenIn, swapTokenOut, swapRecipient, swapAmountIn, swapAmountOutMin)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

var addLiquidityV2Cmd = &cobra.Command{
	Use:   "add-liquidity-uniswap-v2",
	Short: "Add liquidity to a Uniswap V2 pair of whitelisted tokens",
	Long: `Supply liquidity to the Uniswap V2 pair of two whitelisted tokens.
You pick the whole-unit token A amounts, the matching token B amount
is derived from the pool's current reserve ratio. Both approvals are
mined before the liquidity tx. A deadline of 0 means the configured
default counted from now.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, _, err := setup()
		if err != nil {
			return err
		}
		info, err := e.AddLiquidityV2(liqTokenA, liqTokenB, liqAmountADesired, liqAmountAMin, liqTo, liqDeadline)
		if err != nil {
			return err
		}
		reportTxOutcome(info)
		return nil
	},
}

func init() {
	swapV3Cmd.Flags().StringVar(&swapTokenIn, "token-in", "", "token to sell, address or name")
	swapV3Cmd.Flags().StringVar(&swapTokenOut, "token-out", "", "token to buy, address or name")
	swapV3Cmd.Flags().StringVar(&swapAmountIn, "amount-in", "", "whole-unit amount of token-in")
	swapV3Cmd.Flags().StringVar(&swapAmountOutMin, "amount-out-minimum", "0", "minimum whole-unit amount of token-out")
	swapV3Cmd.Flags().StringVar(&swapRecipient, "recipient", "", "recipient address or whitelisted wallet name")
	swapV3Cmd.MarkFlagRequired("token-in")
	swapV3Cmd.MarkFlagRequired("token-out")
	swapV3Cmd.MarkFlagRequired("amount-in")
	swapV3Cmd.MarkFlagRequired("recipient")

	addLiquidityV2Cmd.Flags().StringVar(&liqTokenA, "token-a", "", "first token, address or name")
	addLiquidityV2Cmd.Flags().StringVar(&liqTokenB, "token-b", "", "second token, address or name")
	addLiquidityV2Cmd.Flags().StringVar(&liqAmountADesired, "amount-a-desired", "", "whole-unit amount of token-a to supply")
	addLiquidityV2Cmd.Flags().StringVar(&liqAmountAMin, "amount-a-min", "0", "minimum whole-unit amount of token-a")
	addLiquidityV2Cmd.Flags().StringVar(&liqTo, "to", "", "LP token recipient, address or whitelisted wallet name")
	addLiquidityV2Cmd.Flags().Uint64Var(&liqDeadline, "deadline", 0, "unix deadline, 0 for the configured default")
	addLiquidityV2Cmd.MarkFlagRequired("token-a")
	addLiquidityV2Cmd.MarkFlagRequired("token-b")
	addLiquidityV2Cmd.MarkFlagRequired("amount-a-desired")
	addLiquidityV2Cmd.MarkFlagRequired("to")

	rootCmd.AddCommand(swapV3Cmd)
	rootCmd.AddCommand(addLiquidityV2Cmd)
}
