package tickets404

import (
	"fmt"
	"math/big"

	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/daoleno/uniswapv3-sdk/utils"
)

// SwapQuote is the outcome of a single swap step against in-range liquidity.
// AmountIn excludes FeeAmount.
type SwapQuote struct {
	SqrtPriceNextX96 *big.Int
	AmountIn         *big.Int
	AmountOut        *big.Int
	FeeAmount        *big.Int
}

func (q *SwapQuote) TotalIn() *big.Int {
	return new(big.Int).Add(q.AmountIn, q.FeeAmount)
}

func computeSwapStep(sqrtPriceX96, sqrtPriceTargetX96, liquidity, amountRemaining *big.Int, fee constants.FeeAmount) (*SwapQuote, error) {
	next, amountIn, amountOut, feeAmount, err := utils.ComputeSwapStep(sqrtPriceX96, sqrtPriceTargetX96, liquidity, amountRemaining, fee)
	if err != nil {
		return nil, err
	}
	return &SwapQuote{
		SqrtPriceNextX96: next,
		AmountIn:         amountIn,
		AmountOut:        amountOut,
		FeeAmount:        feeAmount,
	}, nil
}

func priceLimit(zeroForOne bool) *big.Int {
	if zeroForOne {
		return new(big.Int).Add(MIN_SQRT_RATIO, constants.One)
	}
	return new(big.Int).Sub(MAX_SQRT_RATIO, constants.One)
}

// QuoteExactInputSingle estimates the output of an exactInputSingle swap. The
// pools this tool creates hold one full range position, so one step is exact
// until another position is added.
func QuoteExactInputSingle(sqrtPriceX96, liquidity, amountIn *big.Int, zeroForOne bool, fee constants.FeeAmount) (*SwapQuote, error) {
	if liquidity.Sign() <= 0 {
		return nil, ErrNoLiquidity
	}
	if amountIn.Sign() <= 0 {
		return nil, fmt.Errorf("amount in %s: %w", amountIn, ErrInvalidAmount)
	}
	return computeSwapStep(sqrtPriceX96, priceLimit(zeroForOne), liquidity, amountIn, fee)
}

// QuoteExactOutputSingle estimates the input (fee included in TotalIn) needed to
// receive amountOut.
func QuoteExactOutputSingle(sqrtPriceX96, liquidity, amountOut *big.Int, zeroForOne bool, fee constants.FeeAmount) (*SwapQuote, error) {
	if liquidity.Sign() <= 0 {
		return nil, ErrNoLiquidity
	}
	if amountOut.Sign() <= 0 {
		return nil, fmt.Errorf("amount out %s: %w", amountOut, ErrInvalidAmount)
	}
	limit := priceLimit(zeroForOne)
	quote, err := computeSwapStep(sqrtPriceX96, limit, liquidity, new(big.Int).Neg(amountOut), fee)
	if err != nil {
		return nil, err
	}
	if quote.AmountOut.Cmp(amountOut) < 0 {
		return nil, fmt.Errorf("pool can pay out %s of %s: %w", quote.AmountOut, amountOut, ErrNoLiquidity)
	}
	return quote, nil
}
