package tickets404

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// SqrtUsingNewton returns floor(sqrt(x)). x must not be negative.
func SqrtUsingNewton(x *big.Int) *big.Int {
	if x.Sign() < 0 {
		panic("sqrt of negative number")
	}
	// x/2+1 == x when x == 2, which would stop the iteration at 2
	if x.Cmp(big.NewInt(2)) == 0 {
		return big.NewInt(1)
	}
	z := new(big.Int).Set(x)
	y := new(big.Int).Rsh(x, 1)
	y.Add(y, big.NewInt(1))

	for y.Cmp(z) < 0 {
		z.Set(y)
		// y = (x/z + z) / 2
		y.Quo(x, z)
		y.Add(y, z)
		y.Rsh(y, 1)
	}
	return z
}

// CalculateSqrtPriceX96 encodes amount1/amount0 as a Q64.96 square root price,
// the value a v3 pool takes in initialize.
func CalculateSqrtPriceX96(amount0, amount1 *big.Int) (*big.Int, error) {
	if amount0.Sign() < 0 || amount1.Sign() < 0 {
		return nil, ErrNegativeAmount
	}
	if amount0.Sign() == 0 {
		return nil, ErrZeroAmount0
	}
	ratioX192 := new(big.Int).Lsh(amount1, 192)
	ratioX192.Quo(ratioX192, amount0)
	return SqrtUsingNewton(ratioX192), nil
}

// SortTokens orders a pair the way the pool factory does: the numerically
// lower address becomes token0 and the amounts follow their tokens.
func SortTokens(tokenA, tokenB common.Address, amountA, amountB *big.Int) (token0, token1 common.Address, amount0, amount1 *big.Int) {
	if tokenB.Big().Cmp(tokenA.Big()) < 0 {
		return tokenB, tokenA, amountB, amountA
	}
	return tokenA, tokenB, amountA, amountB
}

// SqrtPriceX96ToPrice converts a Q64.96 sqrt price to token1 per token0 in base units.
func SqrtPriceX96ToPrice(sqrtPriceX96 *big.Int) decimal.Decimal {
	sq := new(big.Int).Mul(sqrtPriceX96, sqrtPriceX96)
	return decimal.NewFromBigInt(sq, 0).DivRound(decimal.NewFromBigInt(Q192, 0), 18)
}
