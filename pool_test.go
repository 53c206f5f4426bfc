package tickets404

import (
	"math/big"
	"testing"

	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/daoleno/uniswapv3-sdk/utils"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSwapStep(t *testing.T) {
	price := utils.EncodeSqrtRatioX96(big.NewInt(1), big.NewInt(1))
	priceTarget := utils.EncodeSqrtRatioX96(big.NewInt(101), big.NewInt(100))
	liquidity := new(big.Int).Mul(big.NewInt(2), WeiPerEther)
	amount := new(big.Int).Set(WeiPerEther)

	q, err := computeSwapStep(price, priceTarget, liquidity, amount, constants.FeeAmount(600))
	require.NoError(t, err)

	want, _ := new(big.Int).SetString("9975124224178055", 10)
	assert.Equal(t, 0, q.AmountIn.Cmp(want), "amount in")
	want, _ = new(big.Int).SetString("5988667735148", 10)
	assert.Equal(t, 0, q.FeeAmount.Cmp(want), "fee amount")
	want, _ = new(big.Int).SetString("9925619580021728", 10)
	assert.Equal(t, 0, q.AmountOut.Cmp(want), "amount out")
	assert.Equal(t, 0, q.SqrtPriceNextX96.Cmp(priceTarget), "stops at the target")
	assert.True(t, q.TotalIn().Cmp(amount) < 0)
}

func fixturePool(t *testing.T) (sqrtPriceX96, liquidity *big.Int) {
	t.Helper()
	sqrtPriceX96, err := CalculateSqrtPriceX96(MustParseEther("4.5"), MustParseEther("40000"))
	require.NoError(t, err)
	// L = sqrt(x*y) for a full range position
	liquidity = SqrtUsingNewton(new(big.Int).Mul(MustParseEther("4.5"), MustParseEther("40000")))
	return sqrtPriceX96, liquidity
}

func TestQuoteExactInputSingle(t *testing.T) {
	sqrtPriceX96, liquidity := fixturePool(t)

	// weth is token0 here, buying tickets is zeroForOne
	q, err := QuoteExactInputSingle(sqrtPriceX96, liquidity, MustParseEther("0.01"), true, DefaultFee)
	require.NoError(t, err)
	assert.Equal(t, 0, q.TotalIn().Cmp(MustParseEther("0.01")))
	assert.True(t, q.SqrtPriceNextX96.Cmp(sqrtPriceX96) < 0, "price moves down for zeroForOne")

	// spot is 40000/4.5 tickets per weth, a 1% fee tier pays out less than spot
	spot := new(big.Int).Div(new(big.Int).Mul(MustParseEther("0.01"), big.NewInt(40000*2)), big.NewInt(9))
	assert.True(t, q.AmountOut.Cmp(spot) < 0)
	floor, err := MinAmount(spot, 200)
	require.NoError(t, err)
	assert.True(t, q.AmountOut.Cmp(floor) > 0, "fee plus impact stays under two percent")
}

func TestQuoteExactOutputSingle(t *testing.T) {
	sqrtPriceX96, liquidity := fixturePool(t)
	want := MustParseEther("10")

	q, err := QuoteExactOutputSingle(sqrtPriceX96, liquidity, want, true, DefaultFee)
	require.NoError(t, err)
	assert.Equal(t, 0, q.AmountOut.Cmp(want))

	// spending the quoted input buys the requested output, give or take rounding
	back, err := QuoteExactInputSingle(sqrtPriceX96, liquidity, q.TotalIn(), true, DefaultFee)
	require.NoError(t, err)
	shortfall := new(big.Int).Sub(want, back.AmountOut)
	assert.True(t, shortfall.Cmp(big.NewInt(1000)) <= 0, "short by %s wei", shortfall)
}

func TestQuoteErrors(t *testing.T) {
	sqrtPriceX96, liquidity := fixturePool(t)

	_, err := QuoteExactInputSingle(sqrtPriceX96, big.NewInt(0), big.NewInt(1), true, DefaultFee)
	assert.ErrorIs(t, err, ErrNoLiquidity)

	_, err = QuoteExactInputSingle(sqrtPriceX96, liquidity, big.NewInt(0), true, DefaultFee)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	// more tickets than the pool holds
	_, err = QuoteExactOutputSingle(sqrtPriceX96, liquidity, MustParseEther("50000"), true, DefaultFee)
	assert.ErrorIs(t, err, ErrNoLiquidity)
}

func TestPoolKeyAddress(t *testing.T) {
	factory := common.HexToAddress("0x1F98431c8aD98523631AE4a59f267346ea31F984")
	usdc := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	weth := common.HexToAddress("0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2")

	key := NewPoolKey(weth, usdc, constants.FeeLow)
	assert.Equal(t, usdc, key.Token0)
	pool, err := key.Address(factory)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x88e6A0c2dDD26FEEb64F039a2c41296FcB3f5640"), pool)
	assert.Equal(t, key, NewPoolKey(usdc, weth, constants.FeeLow))

	// USDC/WETH 0.3%
	pool, err = NewPoolKey(usdc, weth, constants.FeeMedium).Address(factory)
	require.NoError(t, err)
	assert.Equal(t, common.HexToAddress("0x8ad599c3A0ff1De082011EFDDc58f1908eb6e6D8"), pool)

	_, err = NewPoolKey(weth, weth, constants.FeeLow).Address(factory)
	assert.Error(t, err)
}

func TestPoolStateInitialized(t *testing.T) {
	assert.False(t, (&PoolState{}).Initialized())
	assert.False(t, (&PoolState{SqrtPriceX96: new(big.Int)}).Initialized())
	assert.True(t, (&PoolState{SqrtPriceX96: Q96}).Initialized())
}
