package tickets404

import (
	"context"
	"fmt"
	"math/big"

	coreEntities "github.com/daoleno/uniswap-sdk-core/entities"
	"github.com/daoleno/uniswapv3-sdk/constants"
	"github.com/daoleno/uniswapv3-sdk/utils"
	"github.com/ethereum/go-ethereum/common"
)

// pool key
type PoolKey struct {
	Token0 common.Address
	Token1 common.Address
	Fee    constants.FeeAmount
}

func NewPoolKey(tokenA, tokenB common.Address, fee constants.FeeAmount) PoolKey {
	token0, token1, _, _ := SortTokens(tokenA, tokenB, nil, nil)
	return PoolKey{Token0: token0, Token1: token1, Fee: fee}
}

// Address is the CREATE2 address the factory deploys this pool at. Only the
// token addresses enter the salt, so the tokens carry placeholder metadata.
func (k PoolKey) Address(factory common.Address) (common.Address, error) {
	token0 := coreEntities.NewToken(1, k.Token0, 18, "", "")
	token1 := coreEntities.NewToken(1, k.Token1, 18, "", "")
	return utils.ComputePoolAddress(factory, token0, token1, k.Fee, "")
}

// pool snapshot
type PoolState struct {
	Address      common.Address
	SqrtPriceX96 *big.Int
	Tick         int
	Liquidity    *big.Int
}

// Initialized reports whether the pool exists and has a price.
func (s *PoolState) Initialized() bool {
	return s.SqrtPriceX96 != nil && s.SqrtPriceX96.Sign() > 0
}

func ReadPoolState(ctx context.Context, chain Chain, pool common.Address) (*PoolState, error) {
	var (
		sqrtPriceX96               = new(big.Int)
		tick                       = new(big.Int)
		observationIndex           uint16
		observationCardinality     uint16
		observationCardinalityNext uint16
		feeProtocol                uint8
		unlocked                   bool
		liquidity                  = new(big.Int)
	)
	err := chain.Call(ctx, pool, funcSlot0, nil,
		&sqrtPriceX96, &tick, &observationIndex, &observationCardinality, &observationCardinalityNext, &feeProtocol, &unlocked,
	)
	if err != nil {
		return nil, fmt.Errorf("read slot0 of %s: %w", pool, err)
	}
	if err := chain.Call(ctx, pool, funcLiquidity, nil, &liquidity); err != nil {
		return nil, fmt.Errorf("read liquidity of %s: %w", pool, err)
	}
	return &PoolState{
		Address:      pool,
		SqrtPriceX96: sqrtPriceX96,
		Tick:         int(tick.Int64()),
		Liquidity:    liquidity,
	}, nil
}

// Quote previews a swap of amount against the pool's in-range liquidity.
// exactIn selects whether amount is the input or the desired output.
func (s *PoolState) Quote(tokenIn common.Address, key PoolKey, amount *big.Int, exactIn bool) (*SwapQuote, error) {
	zeroForOne := tokenIn == key.Token0
	if exactIn {
		return QuoteExactInputSingle(s.SqrtPriceX96, s.Liquidity, amount, zeroForOne, key.Fee)
	}
	return QuoteExactOutputSingle(s.SqrtPriceX96, s.Liquidity, amount, zeroForOne, key.Fee)
}
